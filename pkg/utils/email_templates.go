package utils

import (
	"fmt"
	"time"
)

func currentYear() int {
	return time.Now().Year()
}

func SendWelcomeEmail(to, firstName string) error {
	subject := "Welcome to Gamyartha 🎉"
	content := fmt.Sprintf(`
		<p class="message">
			Hi <b>%s</b>,<br><br>
			Your Gamyartha account is ready. Track your spending, set budgets and
			goals, and split shared expenses with your groups without the awkward
			maths.
		</p>
		<div class="highlight-box">
			<h3>You're all set</h3>
			<p>Log in and record your first transaction to get started.</p>
		</div>
	`, firstName)

	return SendEmail(to, subject, emailShell("Welcome to Gamyartha", content))
}

func SendGroupInviteEmail(to, inviterName, groupName, token string, expiresAt time.Time) error {
	subject := fmt.Sprintf("%s invited you to '%s' on Gamyartha", inviterName, groupName)
	content := fmt.Sprintf(`
		<p class="message">
			Hi there,<br><br>
			<b>%s</b> has invited you to join the group <b>%s</b> to share and
			split expenses together.
		</p>
		<div class="highlight-box">
			<h3>Invitation code</h3>
			<p>%s</p>
			<p>Valid until %s</p>
		</div>
		<p class="message">
			Open Gamyartha and accept the invitation with the code above.
		</p>
	`, inviterName, groupName, token, expiresAt.Format("Jan 2, 2006 3:04 PM"))

	return SendEmail(to, subject, emailShell("Group Invitation", content))
}

func SendPaymentReceivedEmail(to, payerName, amount, groupName string, eventID int64, date time.Time) error {
	subject := fmt.Sprintf("💸 You've Been Paid — Settlement #%d", eventID)
	content := fmt.Sprintf(`
		<p class="message">
			Hi there,<br><br>
			Good news! <b>%s</b> has settled up with you in the group <b>%s</b>.
		</p>
		<div class="highlight-box">
			<h3>%s Received</h3>
			<p>Settlement ID: #%d</p>
			<p>Date: %s</p>
		</div>
		<p class="message">
			Your group balance has been updated accordingly.
		</p>
	`, payerName, groupName, amount, eventID, date.Format("3:04 PM, Jan 2 2006"))

	return SendEmail(to, subject, emailShell("Payment Received", content))
}

func SendDebtorReminderEmail(to, firstName, totalOwed, groupName string) error {
	subject := fmt.Sprintf("Friendly reminder — you owe %s in '%s'", totalOwed, groupName)
	content := fmt.Sprintf(`
		<p class="message">
			Hi <b>%s</b>,<br><br>
			Just a nudge: your balance in the group <b>%s</b> is still in the red.
		</p>
		<div class="highlight-box">
			<h3>%s outstanding</h3>
			<p>Settle up in the app to clear your balance.</p>
		</div>
	`, firstName, groupName, totalOwed)

	return SendEmail(to, subject, emailShell("Settle-Up Reminder", content))
}

func SendBudgetAlertEmail(to, firstName, category, spent, limit string) error {
	subject := fmt.Sprintf("⚠️ Budget alert — %s", category)
	content := fmt.Sprintf(`
		<p class="message">
			Hi <b>%s</b>,<br><br>
			Your spending in <b>%s</b> is closing in on this month's budget.
		</p>
		<div class="highlight-box">
			<h3>%s of %s spent</h3>
			<p>Category: %s</p>
		</div>
	`, firstName, category, spent, limit, category)

	return SendEmail(to, subject, emailShell("Budget Alert", content))
}

func SendWeeklySummaryEmail(to, firstName, income, expenses, netBalance string) error {
	subject := "Your week with Gamyartha 📊"
	content := fmt.Sprintf(`
		<p class="message">
			Hi <b>%s</b>,<br><br>
			Here's how your money moved over the last 7 days.
		</p>
		<div class="highlight-box">
			<h3>In: %s &nbsp;|&nbsp; Out: %s</h3>
			<p>Net group balance: %s</p>
		</div>
		<p class="message">
			Open the app for the full breakdown by category and group.
		</p>
	`, firstName, income, expenses, netBalance)

	return SendEmail(to, subject, emailShell("Weekly Summary", content))
}
