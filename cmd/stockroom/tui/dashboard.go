package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/store"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/marshallshelly/stockroom/pkg/workflow"
)

// Screen is the page shown by the interactive UI
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenOrders
)

// Mode is what the keyboard currently drives
type Mode int

const (
	ModeBrowse Mode = iota
	ModeConfirm
	ModeEditQuantity
)

// Options configures the interactive UI.
type Options struct {
	Dashboard *workflow.Dashboard
	Orders    *workflow.OrderDesk

	// CategoryID preselects a category; 0 picks the first one.
	CategoryID   int64
	PollInterval time.Duration
}

// Model is the Bubbletea model for the dashboard and orders screens
type Model struct {
	ctx    context.Context
	dash   *workflow.Dashboard
	desk   *workflow.OrderDesk
	screen Screen
	mode   Mode

	categories  []inventory.Category
	selected    int
	wantID      int64
	summaryPage int

	overview workflow.Overview
	summary  []views.SummaryRow
	movement workflow.Movement
	status   []views.StatusCount
	notify   NotificationView

	summaryTable table.Model
	orders       list.Model
	quantity     textinput.Model
	confirmation ConfirmationDialog
	target       inventory.Order
	spinner      spinner.Model
	loading      int

	flash  string
	err    error
	width  int
	height int
}

// NewModel creates the interactive UI model
func NewModel(ctx context.Context, opts Options) Model {
	l := list.New([]list.Item{}, OrderItemDelegate{}, 0, 0)
	l.Title = "Orders"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Product", Width: 24},
			{Title: "Orders", Width: 8},
		}),
		table.WithHeight(views.SummaryPageSize+1),
	)

	ti := textinput.New()
	ti.Placeholder = "quantity"
	ti.CharLimit = 9
	ti.Width = 12

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	return Model{
		ctx:          ctx,
		dash:         opts.Dashboard,
		desk:         opts.Orders,
		wantID:       opts.CategoryID,
		summaryPage:  1,
		summaryTable: t,
		orders:       l,
		quantity:     ti,
		spinner:      s,
		notify:       NotificationView{MaxLen: 6},
		status:       views.StatusHistogram(nil),
		movement:     workflow.Movement{Inward: []views.LevelRow{}, Outward: []views.LevelRow{}},
	}
}

// Messages
type categoriesMsg struct {
	categories []inventory.Category
	err        error
}

type overviewMsg struct {
	overview workflow.Overview
	err      error
}

type viewsMsg struct {
	categoryID int64
	summary    []views.SummaryRow
	movement   workflow.Movement
	status     []views.StatusCount
	err        error
	superseded bool
}

type ordersMsg struct {
	orders []inventory.Order
	err    error
}

type orderDoneMsg struct {
	text string
	err  error
}

// NotificationsMsg carries a background notifications refresh.
type NotificationsMsg struct {
	Notifications workflow.Notifications
	Err           error
}

// Commands
func (m Model) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		cats, err := m.dash.Categories(m.ctx)
		return categoriesMsg{categories: cats, err: err}
	}
}

func (m Model) loadOverviewCmd() tea.Cmd {
	return func() tea.Msg {
		ov, err := m.dash.Overview(m.ctx)
		return overviewMsg{overview: ov, err: err}
	}
}

// loadViewsCmd loads the category views. A load overtaken by a newer one
// comes back marked superseded and is not shown.
func (m Model) loadViewsCmd(categoryID int64) tea.Cmd {
	return func() tea.Msg {
		superseded := viewsMsg{categoryID: categoryID, superseded: true}
		summary, err := m.dash.CategorySummary(m.ctx, categoryID)
		if errors.Is(err, store.ErrSuperseded) {
			return superseded
		}
		movement, merr := m.dash.StockMovement(m.ctx, categoryID)
		if errors.Is(merr, store.ErrSuperseded) {
			return superseded
		}
		status, serr := m.dash.OrderStatus(m.ctx, inventory.ForCategory(categoryID))
		if errors.Is(serr, store.ErrSuperseded) {
			return superseded
		}
		return viewsMsg{
			categoryID: categoryID,
			summary:    summary,
			movement:   movement,
			status:     status,
			err:        errors.Join(err, merr, serr),
		}
	}
}

func (m Model) loadOrdersCmd() tea.Cmd {
	return func() tea.Msg {
		orders, err := m.desk.Load(m.ctx, inventory.Filter{})
		if errors.Is(err, store.ErrSuperseded) {
			return nil
		}
		return ordersMsg{orders: orders, err: err}
	}
}

func (m Model) advanceCmd(o inventory.Order) tea.Cmd {
	return func() tea.Msg {
		to, ok := nextStatus(o.Status)
		if !ok {
			return orderDoneMsg{err: inventory.ErrInvalidTransition}
		}
		updated, err := m.desk.ChangeStatus(m.ctx, o.ID, to)
		if err != nil {
			return orderDoneMsg{err: err}
		}
		return orderDoneMsg{text: fmt.Sprintf("Order #%d is now %s", updated.ID, updated.Status)}
	}
}

func (m Model) deleteCmd(o inventory.Order, c workflow.Confirmer) tea.Cmd {
	return func() tea.Msg {
		if err := m.desk.Delete(m.ctx, o.ID, c); err != nil {
			return orderDoneMsg{err: err}
		}
		return orderDoneMsg{text: fmt.Sprintf("Deleted order #%d", o.ID)}
	}
}

func (m Model) editCmd(form forms.Order) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.desk.Edit(m.ctx, form.ID, form); err != nil {
			return orderDoneMsg{err: err}
		}
		return orderDoneMsg{text: fmt.Sprintf("Order #%d now has %d units", form.ID, form.Quantity)}
	}
}

func nextStatus(s inventory.OrderStatus) (inventory.OrderStatus, bool) {
	c, ok := s.Canonical()
	if !ok {
		return "", false
	}
	i := slices.Index(inventory.Statuses, c)
	if i < 0 || i+1 >= len(inventory.Statuses) {
		return "", false
	}
	return inventory.Statuses[i+1], true
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCategoriesCmd(),
		m.loadOverviewCmd(),
		m.loadOrdersCmd(),
		m.spinner.Tick,
		tea.EnterAltScreen,
	)
}

func (m Model) categoryID() int64 {
	if m.selected < 0 || m.selected >= len(m.categories) {
		return 0
	}
	return m.categories[m.selected].ID
}

func (m *Model) selectCategory(i int) tea.Cmd {
	if len(m.categories) == 0 {
		return nil
	}
	m.selected = (i + len(m.categories)) % len(m.categories)
	m.summaryPage = 1
	m.loading++
	return m.loadViewsCmd(m.categoryID())
}

func (m *Model) refreshSummaryTable() {
	p := views.Paginate(m.summary, m.summaryPage, views.SummaryPageSize)
	m.summaryPage = p.Number
	rows := make([]table.Row, 0, len(p.Items))
	for _, r := range p.Items {
		rows = append(rows, table.Row{r.Name, strconv.Itoa(r.Orders)})
	}
	m.summaryTable.SetRows(rows)
}

func (m Model) selectedOrder() (inventory.Order, bool) {
	item, ok := m.orders.SelectedItem().(OrderItem)
	if !ok {
		return inventory.Order{}, false
	}
	return item.Order, true
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.orders.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case categoriesMsg:
		m.categories = msg.categories
		m.err = msg.err
		idx := slices.IndexFunc(m.categories, func(c inventory.Category) bool { return c.ID == m.wantID })
		cmd := m.selectCategory(max(idx, 0))
		return m, cmd

	case overviewMsg:
		m.overview = msg.overview
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case viewsMsg:
		m.loading = max(m.loading-1, 0)
		if msg.superseded || msg.categoryID != m.categoryID() {
			return m, nil
		}
		m.summary = msg.summary
		m.movement = msg.movement
		if msg.status != nil {
			m.status = msg.status
		}
		m.err = msg.err
		m.refreshSummaryTable()
		return m, nil

	case NotificationsMsg:
		m.notify.Notifications = msg.Notifications
		m.notify.Err = msg.Err
		return m, nil

	case ordersMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.orders))
		for i, o := range msg.orders {
			items[i] = OrderItem{Order: o}
		}
		m.orders.SetItems(items)
		return m, nil

	case orderDoneMsg:
		if errors.Is(msg.err, workflow.ErrCancelled) {
			m.flash = "Cancelled"
			return m, nil
		}
		if msg.err != nil {
			m.flash = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.flash = msg.text
		// Stock and status counts changed with the order
		m.loading++
		return m, tea.Batch(m.loadOrdersCmd(), m.loadOverviewCmd(), m.loadViewsCmd(m.categoryID()))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == ScreenOrders && m.mode == ModeBrowse {
		var cmd tea.Cmd
		m.orders, cmd = m.orders.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeConfirm:
		if msg.String() == "esc" || msg.String() == "q" {
			m.mode = ModeBrowse
			return m, nil
		}
		m.confirmation.Update(msg)
		if !m.confirmation.Done {
			return m, nil
		}
		m.mode = ModeBrowse
		return m, m.deleteCmd(m.target, m.confirmation.Confirmer())

	case ModeEditQuantity:
		switch msg.String() {
		case "esc":
			m.mode = ModeBrowse
			m.quantity.Blur()
			return m, nil
		case "enter":
			m.mode = ModeBrowse
			m.quantity.Blur()
			cmd := m.submitQuantity()
			return m, cmd
		}
		var cmd tea.Cmd
		m.quantity, cmd = m.quantity.Update(msg)
		return m, cmd
	}

	// Let the list have every key while its filter is being typed
	if m.screen == ScreenOrders && m.orders.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.orders, cmd = m.orders.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.screen == ScreenDashboard {
			m.screen = ScreenOrders
		} else {
			m.screen = ScreenDashboard
		}
		m.flash = ""
		return m, nil
	case "r":
		m.err = nil
		m.loading++
		return m, tea.Batch(m.loadOverviewCmd(), m.loadOrdersCmd(), m.loadViewsCmd(m.categoryID()))
	}

	if m.screen == ScreenDashboard {
		switch msg.String() {
		case "left", "h":
			cmd := m.selectCategory(m.selected - 1)
			return m, cmd
		case "right", "l":
			cmd := m.selectCategory(m.selected + 1)
			return m, cmd
		case "[":
			m.summaryPage--
			m.refreshSummaryTable()
		case "]":
			m.summaryPage++
			m.refreshSummaryTable()
		}
		return m, nil
	}

	o, ok := m.selectedOrder()
	switch msg.String() {
	case "s":
		if !ok {
			return m, nil
		}
		return m, m.advanceCmd(o)
	case "d":
		if !ok {
			return m, nil
		}
		m.confirmation = NewConfirmationDialog("Delete Order", fmt.Sprintf("%s\n#%d %s × %d", workflow.PromptDeleteOrder, o.ID, o.DisplayName(), o.Quantity))
		m.target = o
		m.mode = ModeConfirm
		return m, nil
	case "e":
		if !ok {
			return m, nil
		}
		if err := o.CheckModifiable(); err != nil {
			m.err = err
			return m, nil
		}
		m.quantity.SetValue(strconv.Itoa(o.Quantity))
		m.mode = ModeEditQuantity
		cmd := m.quantity.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.orders, cmd = m.orders.Update(msg)
	return m, cmd
}

// submitQuantity builds the edit form for the selected order. Orders carry
// only the category name, so the id is resolved from the loaded categories.
func (m *Model) submitQuantity() tea.Cmd {
	o, ok := m.selectedOrder()
	if !ok {
		return nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(m.quantity.Value()))
	if err != nil {
		m.err = &forms.ValidationError{Field: "quantity", Message: "Quantity must be a number"}
		return nil
	}
	var categoryID int64
	for _, c := range m.categories {
		if c.Name == o.ProductCategoryName {
			categoryID = c.ID
			break
		}
	}
	form := forms.OrderFromEntity(o, categoryID)
	form.Quantity = qty
	if err := form.Validate(); err != nil {
		m.err = err
		return nil
	}
	return m.editCmd(form)
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch {
	case m.mode == ModeConfirm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())
	case m.screen == ScreenOrders:
		body = m.ordersView()
	default:
		body = m.dashboardView()
	}

	var footer []string
	if m.loading > 0 {
		footer = append(footer, m.spinner.View()+" "+mutedStyle.Render("loading"))
	}
	if m.flash != "" {
		footer = append(footer, successStyle.Render("✓ "+m.flash))
	}
	if m.err != nil {
		footer = append(footer, errorStyle.Render("✗ "+errorText(m.err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(footer, "  "))
}

func errorText(err error) string {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func (m Model) dashboardView() string {
	header := titleStyle.Render("Stockroom Dashboard") + "\n" + m.statsLine()

	var cats string
	if len(m.categories) == 0 {
		cats = mutedStyle.Render("No categories")
	} else {
		names := make([]string, len(m.categories))
		for i, c := range m.categories {
			if i == m.selected {
				names[i] = selectedItemStyle.PaddingLeft(0).Render("[" + c.Name + "]")
			} else {
				names[i] = mutedStyle.Render(c.Name)
			}
		}
		cats = strings.Join(names, "  ")
	}

	p := views.Paginate(m.summary, m.summaryPage, views.SummaryPageSize)
	summary := boxStyle.Render(
		titleStyle.Render("Category Summary") + "\n" +
			m.summaryTable.View() + "\n" +
			mutedStyle.Render(fmt.Sprintf("page %d/%d", p.Number, p.TotalPages)),
	)

	left := lipgloss.JoinVertical(lipgloss.Left, summary, m.movementView())
	right := lipgloss.JoinVertical(lipgloss.Left, m.statusView(), m.notify.View(), m.stockChartView())

	help := helpLine(
		FormatKey("←/→", "category"),
		FormatKey("[/]", "summary page"),
		FormatKey("tab", "orders"),
		FormatKey("r", "refresh"),
		FormatKey("q", "quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		cats,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		help,
	)
}

func (m Model) statsLine() string {
	labels := []struct{ key, label string }{
		{"total_products", "products"},
		{"total_stock", "in stock"},
		{"low_stock_count", "low"},
		{"out_of_stock_count", "out"},
		{"pending_orders", "pending"},
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if v, ok := m.overview.Stats[l.key]; ok {
			parts = append(parts, infoStyle.Render(fmt.Sprint(v))+" "+mutedStyle.Render(l.label))
		}
	}
	if len(parts) == 0 {
		return subtitleStyle.Render("No statistics")
	}
	return strings.Join(parts, mutedStyle.Render(" · "))
}

func levelChart(title string, rows []views.LevelRow) string {
	peak := 0
	for _, r := range rows {
		peak = max(peak, r.Quantity)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if len(rows) == 0 {
		b.WriteString("\n" + mutedStyle.Render("No products"))
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("\n%-14.14s %s", r.Name, FormatBar(r.Quantity, peak, 20, r.Level)))
	}
	return b.String()
}

func (m Model) movementView() string {
	return boxStyle.Render(
		levelChart("Stock In", m.movement.Inward) + "\n\n" + levelChart("Stock Out", m.movement.Outward),
	)
}

func (m Model) statusView() string {
	peak := 0
	for _, s := range m.status {
		peak = max(peak, s.Count)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Order Status"))
	for _, s := range m.status {
		level := inventory.LevelHealthy
		if s.Status == inventory.StatusPending {
			level = inventory.LevelWarning
		}
		b.WriteString(fmt.Sprintf("\n%-10s %s", s.Status, FormatBar(s.Count, peak, 20, level)))
	}
	return boxStyle.Render(b.String())
}

func (m Model) stockChartView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stock Over Time"))
	if len(m.overview.Series) == 0 {
		b.WriteString("\n" + mutedStyle.Render("No data"))
		return boxStyle.Render(b.String())
	}
	peak := 0
	for _, p := range m.overview.Series {
		peak = max(peak, int(p.Stock))
	}
	for _, p := range m.overview.Series {
		b.WriteString(fmt.Sprintf("\n%s %s", p.Date, FormatBar(int(p.Stock), peak, 20, inventory.InwardLevel(int(p.Stock)))))
	}
	return boxStyle.Render(b.String())
}

func (m Model) ordersView() string {
	var help string
	if m.mode == ModeEditQuantity {
		help = "New quantity: " + m.quantity.View() + "\n" +
			helpLine(FormatKey("enter", "save"), FormatKey("esc", "cancel"))
	} else {
		help = helpLine(
			FormatKey("↑/↓", "navigate"),
			FormatKey("s", "advance status"),
			FormatKey("e", "edit quantity"),
			FormatKey("d", "delete"),
			FormatKey("/", "filter"),
			FormatKey("tab", "dashboard"),
			FormatKey("q", "quit"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.orders.View(), help)
}

// Run starts the interactive UI. Notifications refresh in the background
// every opts.PollInterval until the UI exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithContext(ctx))

	watcher := opts.Dashboard.WatchNotifications(opts.PollInterval, func(n workflow.Notifications, err error) {
		p.Send(NotificationsMsg{Notifications: n, Err: err})
	})
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
