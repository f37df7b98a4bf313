package commands

import (
	"errors"
	"strconv"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/pkg/apierr"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/marshallshelly/stockroom/pkg/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// List flags
	categoryID int64
	page       int

	// Product form flags
	productForm forms.Product
)

// productsCmd represents the products command
var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products, optionally narrowed to a category.

Examples:
  stockroom products list
  stockroom products list --category 2 --page 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		products, err := workflow.NewCatalogDesk(e.client, e.options()...).
			LoadProducts(cmd.Context(), inventory.ForCategory(categoryID))
		if err != nil {
			return err
		}

		p := views.Paginate(views.InventoryRows(products, e.cfg.Thresholds()), page, e.cfg.PageSize)
		if jsonOutput {
			return output.JSON(p)
		}
		if p.Total == 0 {
			output.Info("No products found")
			return nil
		}
		rows := make([][]string, 0, len(p.Items))
		for _, r := range p.Items {
			rows = append(rows, []string{
				strconv.FormatInt(r.ID, 10),
				r.Name,
				r.SKU,
				strconv.Itoa(r.Quantity),
				r.Price.StringFixed(2),
				r.CategoryName,
				string(r.Status),
			})
		}
		output.Table([]string{"ID", "Name", "SKU", "Qty", "Price", "Category", "Stock"}, rows)
		printPage(p.Number, p.TotalPages, p.Total)
		return nil
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := authed()
		if err != nil {
			return err
		}
		p, err := e.client.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(views.InventoryRow{Product: p, Status: p.StockStatus(e.cfg.Thresholds())})
		}
		output.Section(p.Name)
		output.Table([]string{"Field", "Value"}, [][]string{
			{"ID", strconv.FormatInt(p.ID, 10)},
			{"SKU", p.SKU},
			{"Quantity", strconv.Itoa(p.Quantity)},
			{"Price", p.Price.StringFixed(2)},
			{"Category", p.CategoryName},
			{"Description", p.Description},
		})
		output.Info("Stock: %s", output.Stock(p.StockStatus(e.cfg.Thresholds())))
		return nil
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a product",
	Long: `Create a product in a category.

Examples:
  stockroom products add --name Pen --sku ST-PEN --quantity 100 --price 1.50 --category 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveProduct(cmd, productForm)
	},
}

var productsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update a product",
	Long: `Update the given fields of a product. The category cannot be changed.

Examples:
  stockroom products edit 4 --quantity 80
  stockroom products edit 4 --price 2.25 --description "Blue ink"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := authed()
		if err != nil {
			return err
		}
		current, err := e.client.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}

		form := forms.ProductFromEntity(current)
		cmd.Flags().Visit(func(f *pflag.Flag) {
			switch f.Name {
			case "name":
				form.Name = productForm.Name
			case "sku":
				form.SKU = productForm.SKU
			case "quantity":
				form.Quantity = productForm.Quantity
			case "price":
				form.Price = productForm.Price
			case "description":
				form.Description = productForm.Description
			}
		})
		return saveProduct(cmd, form)
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := authed()
		if err != nil {
			return err
		}
		desk := workflow.NewCatalogDesk(e.client, e.options()...)
		if err := desk.DeleteProduct(cmd.Context(), id, confirmer(assumeYes)); err != nil {
			return err
		}
		output.Success("Deleted product %d", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsAddCmd, productsEditCmd, productsDeleteCmd)

	productsListCmd.Flags().Int64Var(&categoryID, "category", 0, "Only products of this category id")
	productsListCmd.Flags().IntVar(&page, "page", 1, "Page number")

	for _, c := range []*cobra.Command{productsAddCmd, productsEditCmd} {
		c.Flags().StringVar(&productForm.Name, "name", "", "Product name")
		c.Flags().StringVar(&productForm.SKU, "sku", "", "Stock keeping unit, unique per account")
		c.Flags().StringVar(&productForm.Quantity, "quantity", "0", "Units on hand")
		c.Flags().StringVar(&productForm.Price, "price", "0", "Unit price")
		c.Flags().StringVar(&productForm.Description, "description", "", "Description")
	}
	productsAddCmd.Flags().Int64Var(&productForm.Category, "category", 0, "Category id")

	productsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func saveProduct(cmd *cobra.Command, form forms.Product) error {
	e, err := authed()
	if err != nil {
		return err
	}

	saved, err := workflow.NewCatalogDesk(e.client, e.options()...).SaveProduct(cmd.Context(), form)
	if err != nil {
		if errors.Is(err, forms.ErrInvalid) || errors.Is(err, apierr.ErrUnauthorized) {
			return err
		}
		return forms.ProductFailure(err)
	}

	if jsonOutput {
		return output.JSON(saved)
	}
	if form.Editing() {
		output.Success("Updated product %q", saved.Name)
	} else {
		output.Success("Created product %q (id %d)", saved.Name, saved.ID)
	}
	return nil
}

func printPage(number, pages, total int) {
	output.Muted("Page %d of %d (%d total)", number, pages, total)
}
