package scraper

import (
	"net/url"

	"go.uber.org/zap"
)

// defaultParams is the full query the results page expects. Only these keys
// may be overridden.
var defaultParams = map[string]string{
	"Output":                     "W",
	"Business_Name":              "",
	"Business_Address":           "",
	"Longitude":                  "",
	"Latitude":                   "",
	"City":                       "",
	"Zip_Code":                   "",
	"Inspection_Type":            "All",
	"Inspection_Start":           "",
	"Inspection_End":             "",
	"Inspection_Closed_Business": "A",
	"Violation_Points":           "",
	"Violation_Red_Points":       "",
	"Violation_Descr":            "",
	"Fuzzy_Search":               "N",
	"Sort":                       "H",
}

// BuildQuery returns the default query with overrides applied. Keys the
// results page does not know are dropped.
func BuildQuery(overrides map[string]string) url.Values {
	q := make(url.Values, len(defaultParams))
	for k, v := range defaultParams {
		q.Set(k, v)
	}
	for k, v := range overrides {
		if _, ok := defaultParams[k]; !ok {
			zap.L().Debug("ignoring unknown query parameter", zap.String("param", k))
			continue
		}
		q.Set(k, v)
	}
	return q
}
