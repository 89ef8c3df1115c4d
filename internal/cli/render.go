package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	ledger "todochain/internal/domains/ledger/model"
	ledgerDto "todochain/internal/domains/ledger/model/dto"
	todoDto "todochain/internal/domains/todo/model/dto"
)

const progressWidth = 28

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func ok(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func progressBar(done, total int) string {
	if total == 0 {
		total = 1
	}

	filled := min(done*progressWidth/total, progressWidth)

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled) + fmt.Sprintf("] %d/%d", done, total)
}

// renderTodos draws the collection in insertion order inside a framed panel.
func renderTodos(todos todoDto.GetTodosResponse) string {
	done := todos.Total - todos.Pending

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			titleStyle.Render("Todos"),
			successStyle.Render("✔"), done,
			pendingStyle.Render("•"), todos.Pending,
			accentStyle.Render("Total"), todos.Total,
		),
		mutedStyle.Render(progressBar(done, todos.Total)),
		mutedStyle.Render(todos.Account),
		"",
	}

	if len(todos.Todos) == 0 {
		lines = append(lines, mutedStyle.Render("nothing here yet"))
	}

	for i, todo := range todos.Todos {
		box, name := boxUnchecked, todo.Name
		if todo.Done {
			box, name = boxChecked, doneStyle.Render(todo.Name)
		}

		lines = append(lines, fmt.Sprintf("%2d. %s %s  %s", i+1, box, name, mutedStyle.Render(todo.CreatedAt)))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderAccounts(res ledgerDto.GetAccountsResponse, page int) string {
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s",
			titleStyle.Render("Accounts"),
			accentStyle.Render("Total"), res.TotalData,
			mutedStyle.Render(fmt.Sprintf("page %d/%d", page, max(res.TotalPage, 1))),
		),
		"",
	}

	if len(res.Accounts) == 0 {
		lines = append(lines, mutedStyle.Render("no accounts"))
	}

	for _, account := range res.Accounts {
		lines = append(lines, fmt.Sprintf("%-44s %14d  %s", account.Pubkey, account.Lamports, mutedStyle.Render(account.ModifiedAt)))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderReceipt(receipt ledgerDto.ReceiptResponse) string {
	lines := []string{
		fmt.Sprintf("%s %s", titleStyle.Render("tx"), receipt.ID),
		fmt.Sprintf("%s %d", titleStyle.Render("slot"), receipt.Slot),
		fmt.Sprintf("%s %s", titleStyle.Render("status"), receipt.Status),
	}

	if receipt.Error != "" {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("error %d: %s", receipt.ErrorCode, receipt.Error)))
	}

	for _, line := range receipt.Logs {
		lines = append(lines, mutedStyle.Render(line))
	}

	return strings.Join(lines, "\n")
}

func receiptResponse(receipt ledger.Receipt) ledgerDto.ReceiptResponse {
	var res ledgerDto.ReceiptResponse
	res.FromModel(receipt)

	return res
}
