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
)

var (
	// Order form flags
	orderForm forms.Order
)

// ordersCmd represents the orders command
var ordersCmd = &cobra.Command{
	Use:     "orders",
	Aliases: []string{"order"},
	Short:   "Manage orders",
	Long: `Manage customer orders.

Only pending orders can be edited, advanced or deleted. Status only moves
forward: Pending -> Shipped -> Completed.`,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		orders, err := workflow.NewOrderDesk(e.client, e.options()...).Load(cmd.Context(), inventory.ForCategory(categoryID))
		if err != nil {
			return err
		}

		p := views.Paginate(orders, page, e.cfg.PageSize)
		if jsonOutput {
			return output.JSON(p)
		}
		if p.Total == 0 {
			output.Info("No orders found")
			return nil
		}
		rows := make([][]string, 0, len(p.Items))
		for _, o := range p.Items {
			rows = append(rows, []string{
				strconv.FormatInt(o.ID, 10),
				o.DisplayName(),
				o.ProductCategoryName,
				strconv.Itoa(o.Quantity),
				string(o.Status),
			})
		}
		output.Table([]string{"ID", "Product", "Category", "Qty", "Status"}, rows)
		printPage(p.Number, p.TotalPages, p.Total)
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one order",
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
		o, err := e.client.GetOrder(cmd.Context(), id)
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(o)
		}
		output.Section("Order " + strconv.FormatInt(o.ID, 10))
		output.Table([]string{"Field", "Value"}, [][]string{
			{"Product", o.DisplayName()},
			{"Category", o.ProductCategoryName},
			{"Quantity", strconv.Itoa(o.Quantity)},
			{"Status", string(o.Status)},
		})
		if !o.Modifiable() {
			output.Muted("This order is %s and can no longer be changed.", o.Status)
		}
		return nil
	},
}

var ordersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Place an order",
	Long: `Place a pending order. Stock is taken from the product right away.

Examples:
  stockroom orders add --category 1 --product 4 --quantity 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		placed, err := workflow.NewOrderDesk(e.client, e.options()...).Create(cmd.Context(), orderForm)
		if err != nil {
			return orderFailure(err, false)
		}

		if jsonOutput {
			return output.JSON(placed)
		}
		output.Success("Order placed (id %d)", placed.Order.ID)
		if placed.SellingFast {
			output.Warning("Add more products, selling fast: only %d left", placed.Remaining)
		}
		return nil
	},
}

var ordersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the product or quantity of a pending order",
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
		ctx := cmd.Context()

		current, err := e.client.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		form := forms.OrderFromEntity(current, orderForm.Category)
		if cmd.Flags().Changed("product") {
			form.Product = orderForm.Product
		}
		if cmd.Flags().Changed("quantity") {
			form.Quantity = orderForm.Quantity
		}
		if form.Category == 0 {
			p, err := e.client.GetProduct(ctx, form.Product)
			if err != nil {
				return err
			}
			form.Category = p.Category
		}

		saved, err := workflow.NewOrderDesk(e.client, e.options()...).Edit(ctx, id, form)
		if err != nil {
			return orderFailure(err, true)
		}

		if jsonOutput {
			return output.JSON(saved)
		}
		output.Success("Updated order %d", saved.ID)
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Advance the status of a pending order",
	Long: `Advance the status of a pending order.

Examples:
  stockroom orders status 12 shipped
  stockroom orders status 12 completed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := authed()
		if err != nil {
			return err
		}
		o, err := workflow.NewOrderDesk(e.client, e.options()...).ChangeStatus(cmd.Context(), id, inventory.OrderStatus(args[1]))
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(o)
		}
		output.Success("Order %d is now %s %s", o.ID, output.StatusIcon(o.Status), o.Status)
		return nil
	},
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a pending order and restock its product",
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
		desk := workflow.NewOrderDesk(e.client, e.options()...)
		if err := desk.Delete(cmd.Context(), id, confirmer(assumeYes)); err != nil {
			return err
		}
		output.Success("Deleted order %d", id)
		return nil
	},
}

var ordersChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the order count per status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		counts, err := workflow.NewDashboard(e.client, e.options()...).OrderStatus(cmd.Context(), inventory.ForCategory(categoryID))
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(counts)
		}
		output.Section("Order Status")
		printStatusChart(counts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersAddCmd, ordersEditCmd, ordersStatusCmd, ordersDeleteCmd, ordersChartCmd)

	ordersListCmd.Flags().Int64Var(&categoryID, "category", 0, "Only orders for products of this category id")
	ordersListCmd.Flags().IntVar(&page, "page", 1, "Page number")
	ordersChartCmd.Flags().Int64Var(&categoryID, "category", 0, "Only orders for products of this category id")

	for _, c := range []*cobra.Command{ordersAddCmd, ordersEditCmd} {
		c.Flags().Int64Var(&orderForm.Category, "category", 0, "Category of the product")
		c.Flags().Int64Var(&orderForm.Product, "product", 0, "Product id")
		c.Flags().IntVar(&orderForm.Quantity, "quantity", 0, "Units ordered")
	}

	ordersDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// orderFailure keeps validation, state machine and session errors as they
// are and replaces backend failures with the form message, keeping the
// backend's own text when it gave one.
func orderFailure(err error, editing bool) error {
	switch {
	case errors.Is(err, forms.ErrInvalid),
		errors.Is(err, inventory.ErrOrderLocked),
		errors.Is(err, apierr.ErrUnauthorized):
		return err
	}
	if e, ok := apierr.As(err); ok && e.Kind == apierr.KindAPI && e.Detail != "" {
		return errors.New(forms.OrderFailure(editing) + ": " + e.Detail)
	}
	return errors.New(forms.OrderFailure(editing))
}

func printStatusChart(counts []views.StatusCount) {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Count)
	}
	for _, c := range counts {
		level := inventory.LevelHealthy
		if c.Status == inventory.StatusPending {
			level = inventory.LevelWarning
		}
		output.Info("%-10s %s %d", c.Status, output.Bar(c.Count, peak, 30, level), c.Count)
	}
}
