package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/cmd/stockroom/tui"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/marshallshelly/stockroom/pkg/workflow"
	"github.com/spf13/cobra"
)

var (
	// Dashboard flags
	watch       bool
	interactive bool
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the inventory dashboard",
	Long: `Show the statistics header, stock chart, notifications and the views of
one category: product summary, stock movement and order status.

Without --category the first category is shown.

Examples:
  stockroom dashboard
  stockroom dashboard --category 3
  stockroom dashboard --watch
  stockroom dashboard -i`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authed()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		dash := workflow.NewDashboard(e.client, e.options()...)

		if interactive {
			return tui.Run(ctx, tui.Options{
				Dashboard:    dash,
				Orders:       workflow.NewOrderDesk(e.client, e.options()...),
				CategoryID:   categoryID,
				PollInterval: e.cfg.PollInterval,
			})
		}
		if watch {
			output.Info("Watching notifications every %s (Ctrl+C to stop)", e.cfg.PollInterval)
			w := dash.WatchNotifications(e.cfg.PollInterval, func(n workflow.Notifications, err error) {
				output.Section(fmt.Sprintf("Notifications (%d) at %s", n.Count(), time.Now().Format(time.TimeOnly)))
				printNotifications(n, err)
			})
			if err := w.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			w.Stop()
			return nil
		}
		return printDashboard(ctx, dash, categoryID)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().Int64Var(&categoryID, "category", 0, "Category id for the summary, movement and status views")
	dashboardCmd.Flags().BoolVar(&watch, "watch", false, "Keep printing notifications as they refresh")
	dashboardCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the interactive dashboard")
	dashboardCmd.MarkFlagsMutuallyExclusive("watch", "interactive")
}

// dashboardReport is the --json shape of the dashboard.
type dashboardReport struct {
	workflow.Overview
	Notifications workflow.Notifications `json:"notifications"`
	Category      *inventory.Category    `json:"category"`
	Summary       []views.SummaryRow     `json:"summary"`
	Movement      workflow.Movement      `json:"movement"`
	OrderStatus   []views.StatusCount    `json:"order_status"`
}

func printDashboard(ctx context.Context, dash *workflow.Dashboard, categoryID int64) error {
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var report dashboardReport
	var err error
	report.Overview, err = dash.Overview(ctx)
	keep(err)
	var notifyErr error
	report.Notifications, notifyErr = dash.Notifications(ctx)
	keep(notifyErr)

	cats, err := dash.Categories(ctx)
	keep(err)
	for i := range cats {
		if categoryID == 0 || cats[i].ID == categoryID {
			report.Category = &cats[i]
			break
		}
	}
	if report.Category != nil {
		id := report.Category.ID
		report.Summary, err = dash.CategorySummary(ctx, id)
		keep(err)
		report.Movement, err = dash.StockMovement(ctx, id)
		keep(err)
		report.OrderStatus, err = dash.OrderStatus(ctx, inventory.ForCategory(id))
		keep(err)
	} else if categoryID != 0 {
		errs = append(errs, fmt.Errorf("category %d not found", categoryID))
	}

	if jsonOutput {
		if err := output.JSON(report); err != nil {
			return err
		}
		return errors.Join(errs...)
	}

	output.Section("Statistics")
	printStats(report.Overview.Stats)

	output.Section("Stock Over Time")
	printSeries(report.Overview.Series)

	output.Section(fmt.Sprintf("Notifications (%d)", report.Notifications.Count()))
	printNotifications(report.Notifications, notifyErr)

	if report.Category != nil {
		output.Section("Category: " + report.Category.Name)
		if len(report.Summary) == 0 {
			output.Muted("No products in this category")
		} else {
			rows := make([][]string, 0, len(report.Summary))
			for _, r := range report.Summary {
				rows = append(rows, []string{r.Name, strconv.Itoa(r.Orders)})
			}
			output.Table([]string{"Product", "Orders"}, rows)
		}

		output.Section("Stock In")
		printLevels(report.Movement.Inward)
		output.Section("Stock Out")
		printLevels(report.Movement.Outward)
		output.Section("Order Status")
		printStatusChart(report.OrderStatus)
	}

	return errors.Join(errs...)
}

func printStats(stats map[string]any) {
	if len(stats) == 0 {
		output.Muted("No statistics")
		return
	}
	keys := []struct{ key, label string }{
		{"total_products", "Products"},
		{"total_categories", "Categories"},
		{"total_stock", "Units in stock"},
		{"low_stock_count", "Low stock"},
		{"out_of_stock_count", "Out of stock"},
		{"total_orders", "Orders"},
		{"pending_orders", "Pending orders"},
	}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := stats[k.key]; ok {
			rows = append(rows, []string{k.label, fmt.Sprint(v)})
		}
	}
	output.Table([]string{"Statistic", "Value"}, rows)
}

func printSeries(points []views.StockPoint) {
	if len(points) == 0 {
		output.Muted("No data")
		return
	}
	peak := 0
	for _, p := range points {
		peak = max(peak, int(p.Stock))
	}
	for _, p := range points {
		stock := int(p.Stock)
		output.Info("%s %s %d", p.Date, output.Bar(stock, peak, 30, inventory.InwardLevel(stock)), stock)
	}
}

func printLevels(rows []views.LevelRow) {
	if len(rows) == 0 {
		output.Muted("No products")
		return
	}
	peak := 0
	for _, r := range rows {
		peak = max(peak, r.Quantity)
	}
	for _, r := range rows {
		output.Info("%-16.16s %s %d", r.Name, output.Bar(r.Quantity, peak, 30, r.Level), r.Quantity)
	}
}

func printNotifications(n workflow.Notifications, err error) {
	if err != nil {
		output.Error("Failed to load notifications: %s", message(err))
		return
	}
	if n.Count() == 0 {
		output.Muted("All caught up")
		return
	}
	for _, p := range n.Alerts.OutOfStock {
		output.Error("%s is out of stock", p.Name)
	}
	for _, p := range n.Alerts.LowStock {
		output.Warning("%s is low on stock (%d left)", p.Name, p.Quantity)
	}
	for _, o := range n.Pending {
		output.Info("Order #%d for %s is pending", o.ID, o.DisplayName())
	}
}
