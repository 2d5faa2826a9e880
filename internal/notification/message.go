package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
)

const messageDateFormat = "January 2, 2006 15:04"

var actionText = map[domain.ExpenseAction]string{
	domain.ActionCreate: "created",
	domain.ActionUpdate: "updated",
	domain.ActionDelete: "deleted",
}

// RenderEmail turns an expense notification into the e-mail message published
// to the queue
func RenderEmail(data *domain.ExpenseNotification) domain.EmailMessage {
	action := actionText[data.Action]

	categoryName := data.CategoryName
	if categoryName == "" {
		categoryName = "Uncategorized"
	}

	subject := fmt.Sprintf("Expense %s - %s", action, categoryName)

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #333;">Expense Notification</h2>`)
	fmt.Fprintf(&b, `<p><strong>Action:</strong> %s</p>`, strings.ToUpper(action))
	fmt.Fprintf(&b, `<p><strong>Action date:</strong> %s</p>`, data.ActionDate.Format(messageDateFormat))

	b.WriteString(`<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0;">Expense Details</h3>`)
	fmt.Fprintf(&b, `<p><strong>ID:</strong> %s</p>`, data.Expense.ID)
	fmt.Fprintf(&b, `<p><strong>Amount:</strong> $%s</p>`, data.Expense.Amount.StringFixed(2))
	fmt.Fprintf(&b, `<p><strong>Expense date:</strong> %s</p>`, data.Expense.DateProduced.Format(messageDateFormat))
	fmt.Fprintf(&b, `<p><strong>Category:</strong> %s</p>`, categoryName)
	fmt.Fprintf(&b, `<p><strong>User:</strong> %s</p>`, data.Expense.UserID)
	fmt.Fprintf(&b, `<p><strong>Company:</strong> %s</p>`, data.Expense.CompanyID)
	b.WriteString(`</div>`)

	if len(data.Changes) > 0 {
		b.WriteString(`<div style="background-color: #fff3cd; padding: 15px; border-radius: 5px; margin: 20px 0;">`)
		b.WriteString(`<h3 style="margin-top: 0; color: #856404;">Changes</h3>`)
		b.WriteString(`<ul style="margin: 0; padding-left: 20px;">`)
		for _, change := range data.Changes {
			fmt.Fprintf(&b, `<li><strong>%s:</strong> %s → %s</li>`, change.Field, change.OldValue, change.NewValue)
		}
		b.WriteString(`</ul></div>`)
	}

	b.WriteString(`<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; font-size: 12px; color: #666;">`)
	b.WriteString(`<p>This is an automated message from the expense tracking system.</p>`)
	fmt.Fprintf(&b, `<p>Sent: %s</p>`, time.Now().Format(messageDateFormat))
	b.WriteString(`</div></div>`)

	return domain.EmailMessage{
		To:      data.UserEmail,
		Subject: subject,
		HTML:    b.String(),
	}
}
