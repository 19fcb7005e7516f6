package inspection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mspro-labs/inspection-map/internal/htmldoc"
)

// samplePage mirrors the results page layout: a content column holding one
// div per restaurant, each with a label/value table and a nested
// inspection-history table.
const samplePage = `
<html><body><table><tr>
<td id="contentcol">
  <div id="PRX~">decoy</div>
  <div id="PR0012345~" class="undisplayed">
    <table>
      <tr><td>Business Name:</td><td>PHO BAC</td></tr>
      <tr><td>Address:</td><td>1314 S JACKSON ST</td></tr>
      <tr><td></td><td>Seattle, WA 98144</td></tr>
      <tr><td>Phone:</td><td>(206) 323-4387</td></tr>
      <tr><td colspan="2">
        <table>
          <tr><td>Inspection Type</td><td>Date</td><td>Score</td><td>Result</td></tr>
          <tr><td>Routine Inspection/Field Review</td><td>01/15/2014</td><td>10</td><td>Unsatisfactory</td></tr>
          <tr><td>Return Inspection</td><td>01/30/2014</td><td>N/A</td><td>Complete</td></tr>
          <tr><td>Routine Inspection/Field Review</td><td>06/02/2014</td><td>20</td><td>Unsatisfactory</td></tr>
          <tr><td>Consultation/Education - Field</td><td>07/02/2014</td><td>5</td><td>Complete</td></tr>
          <tr><td>Routine Inspection/Field Review</td><td>12/11/2014</td><td>20</td><td>Satisfactory</td></tr>
        </table>
      </td></tr>
    </table>
  </div>
  <div id="PR0067890~" class="undisplayed">
    <table>
      <tr><td>Business Name:</td><td>CAFE ALLEGRO</td></tr>
      <tr><td>Address:</td><td>4214 UNIVERSITY WAY NE</td></tr>
      <tr><td colspan="2">
        <table>
          <tr><td>Inspection Type</td><td>Date</td><td>Score</td><td>Result</td></tr>
        </table>
      </td></tr>
    </table>
  </div>
</td>
</tr></table></body></html>`

func parseRoot(t *testing.T, src string) htmldoc.Node {
	t.Helper()
	doc, err := htmldoc.Parse([]byte(src), "utf-8")
	require.NoError(t, err)
	return doc.Root()
}

// tableRows parses body inside a table and returns its rows in document order.
func tableRows(t *testing.T, body string) []htmldoc.Node {
	t.Helper()
	return parseRoot(t, "<table>"+body+"</table>").Descendants("tr")
}

// singleBlock wraps rows in a restaurant block and returns it.
func singleBlock(t *testing.T, rows string) Block {
	t.Helper()
	blocks := LocateBlocks(parseRoot(t, `<div id="PR1~"><table>`+rows+`</table></div>`))
	require.Len(t, blocks, 1)
	return blocks[0]
}

func inspectionRow(score string) string {
	return `<tr><td>Routine Inspection</td><td>01/01/2014</td><td>` + score + `</td><td>Complete</td></tr>`
}
