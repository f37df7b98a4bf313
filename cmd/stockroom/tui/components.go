package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/workflow"
)

// ConfirmationDialog is a yes/no question. No is selected initially.
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool

	// Done is set once an answer has been given
	Done bool
}

// NewConfirmationDialog creates a new confirmation dialog
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:   title,
		Message: message,
	}
}

// Update handles confirmation dialog keys
func (d *ConfirmationDialog) Update(msg tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch key.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "y":
		d.YesSelected = true
		d.Done = true
	case "n":
		d.YesSelected = false
		d.Done = true
	case "enter":
		d.Done = true
	}
}

// Confirmer answers a workflow prompt with a pre-made decision. The dialog
// has already asked by the time the workflow runs.
func (d ConfirmationDialog) Confirmer() workflow.Confirmer {
	yes := d.YesSelected
	return workflow.ConfirmFunc(func(string) bool { return yes })
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")

	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n")
	b.WriteString(helpLine(FormatKey("←/→", "choose"), FormatKey("y/n", "answer"), FormatKey("enter", "confirm"), FormatKey("esc", "cancel")))

	return activeBoxStyle.Padding(1, 2).Render(b.String())
}

// OrderItem is an order in the orders list
type OrderItem struct {
	inventory.Order
}

func (i OrderItem) FilterValue() string { return i.DisplayName() }
func (i OrderItem) Title() string {
	return fmt.Sprintf("#%d %s × %d", i.ID, i.DisplayName(), i.Quantity)
}
func (i OrderItem) Description() string {
	desc := FormatStatus(i.Status)
	if i.ProductCategoryName != "" {
		desc += mutedStyle.Render("  " + i.ProductCategoryName)
	}
	if !i.Modifiable() {
		desc += mutedStyle.Render("  locked")
	}
	return desc
}

// OrderItemDelegate renders OrderItems on two lines.
type OrderItemDelegate struct{}

func (d OrderItemDelegate) Height() int                             { return 2 }
func (d OrderItemDelegate) Spacing() int                            { return 1 }
func (d OrderItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d OrderItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(OrderItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}

	_, _ = fmt.Fprint(w, s)
}

// NotificationView renders the alerts card.
type NotificationView struct {
	Notifications workflow.Notifications
	Err           error
	MaxLen        int
}

// View renders the notification view
func (v NotificationView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Notifications (%d)", v.Notifications.Count())))
	b.WriteString("\n")

	if v.Err != nil {
		b.WriteString(errorStyle.Render("Failed to load notifications"))
		return boxStyle.Render(b.String())
	}
	if v.Notifications.Count() == 0 {
		b.WriteString(mutedStyle.Render("All caught up"))
		return boxStyle.Render(b.String())
	}

	lines := make([]string, 0, v.Notifications.Count())
	for _, p := range v.Notifications.Alerts.OutOfStock {
		lines = append(lines, dangerStyle.Render("• ")+p.Name+" is out of stock")
	}
	for _, p := range v.Notifications.Alerts.LowStock {
		lines = append(lines, warningStyle.Render("• ")+fmt.Sprintf("%s is low on stock (%d left)", p.Name, p.Quantity))
	}
	for _, o := range v.Notifications.Pending {
		lines = append(lines, infoStyle.Render("• ")+fmt.Sprintf("Order #%d for %s is pending", o.ID, o.DisplayName()))
	}

	if v.MaxLen > 0 && len(lines) > v.MaxLen {
		more := len(lines) - v.MaxLen
		lines = append(lines[:v.MaxLen], mutedStyle.Render(fmt.Sprintf("… and %d more", more)))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return boxStyle.Render(b.String())
}
