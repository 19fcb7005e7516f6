package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mspro-labs/inspection-map/internal/db"
)

var listSort string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored restaurants by inspection score",
	Long: `Prints the restaurants from the last scrape, highest scores first.
Examples:
  inspection-map list
  inspection-map list --sort high`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Connect(appCfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		items, err := db.GetActiveRestaurants(database, listSort)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No restaurants stored. Run 'inspection-map scrape' first.")
			return nil
		}
		for i, r := range items {
			fmt.Printf("#%d %s (avg %.1f, high %d, %d inspections)\n",
				i+1, r.BusinessName, r.AverageScore, r.HighScore, r.TotalInspections)
			if r.Address != "" {
				fmt.Printf("   %s\n", r.Address)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", db.SortAverage, "sort by 'average' or 'high'")
	rootCmd.AddCommand(listCmd)
}
