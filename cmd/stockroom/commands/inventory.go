package commands

import (
	"strconv"
	"strings"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/marshallshelly/stockroom/pkg/workflow"
	"github.com/spf13/cobra"
)

var categoryName string

// inventoryCmd represents the inventory command
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show stock levels",
	Long: `Show every product with its stock status, optionally narrowed to one
category by name.

Examples:
  stockroom inventory
  stockroom inventory --category Electronics --page 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		rows, names, err := workflow.NewCatalogDesk(e.client, e.options()...).Inventory(cmd.Context(), categoryName)
		if err != nil {
			return err
		}

		p := views.Paginate(rows, page, e.cfg.PageSize)
		if jsonOutput {
			return output.JSON(struct {
				Categories []string                      `json:"categories"`
				Page       views.Page[views.InventoryRow] `json:"inventory"`
			}{names, p})
		}

		if p.Total == 0 {
			output.Info("No products found")
			return nil
		}
		table := make([][]string, 0, len(p.Items))
		for _, r := range p.Items {
			table = append(table, []string{r.Name, r.SKU, r.CategoryName, strconv.Itoa(r.Quantity), string(r.Status)})
		}
		output.Table([]string{"Product", "SKU", "Category", "Qty", "Stock"}, table)
		printPage(p.Number, p.TotalPages, p.Total)
		if len(names) > 0 {
			output.Muted("Categories: %s", strings.Join(names, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringVar(&categoryName, "category", views.AllCategories, "Category name, or All")
	inventoryCmd.Flags().IntVar(&page, "page", 1, "Page number")
}
