package services

import (
	"fmt"
	"time"

	"github.com/example/partner-portal/internal/models"
)

const mailShell = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8" /></head>
<body style="font-family:Arial,sans-serif;background:#f6f9fc;margin:0;padding:0;">
  <div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:10px;overflow:hidden;">
    <div style="background:#4f46e5;padding:20px;text-align:center;color:#ffffff;"><h1>%s</h1></div>
    <div style="padding:30px;color:#333;line-height:1.6;">%s</div>
    <div style="background:#f3f4f6;padding:15px;text-align:center;font-size:12px;color:#888;">
      &copy; %d Partner Program. All rights reserved.
    </div>
  </div>
</body>
</html>`

func renderMail(header, content string) string {
	return fmt.Sprintf(mailShell, header, content, time.Now().Year())
}

func applicationReceivedMail(name, website string) (string, string) {
	content := fmt.Sprintf(`
      <p>Thank you for applying to become our partner.</p>
      <p>Our team is reviewing your application and we&rsquo;ll get back to you shortly.</p>
      <a href="%s" style="display:inline-block;margin-top:20px;padding:12px 24px;background:#4f46e5;color:#fff;text-decoration:none;border-radius:6px;">Visit Your Website</a>
      <p style="margin-top:30px;">Best Regards,<br/>The Team</p>`, website)
	return "Partner application received", renderMail("Welcome, "+name+"!", content)
}

func adminApplicationMail(p *models.Partner) (string, string) {
	content := fmt.Sprintf(`
      <p>A new partner has submitted their application. Here are the details:</p>
      <table style="width:100%%;border-collapse:collapse;margin-top:20px;">
        <tr><td><strong>Name:</strong></td><td>%s</td></tr>
        <tr><td><strong>Email:</strong></td><td>%s</td></tr>
        <tr><td><strong>Website:</strong></td><td>%s</td></tr>
        <tr><td><strong>Platform:</strong></td><td>%s</td></tr>
        <tr><td><strong>Affiliate Handle:</strong></td><td>%s</td></tr>
        <tr><td><strong>Mobile:</strong></td><td>%s</td></tr>
        <tr><td><strong>Description:</strong></td><td>%s</td></tr>
      </table>
      <p style="margin-top:20px;">Please review and approve/reject this request.</p>`,
		p.Name, p.Email, p.Website, p.Platform, p.AffiliateHandle, p.MobilePhone, p.Description)
	return "New partner application", renderMail("New Partner Application", content)
}

func partnerApprovedMail(name, email, password, referenceCode string) (string, string) {
	content := fmt.Sprintf(`
      <p>Congratulations, your partner application has been approved.</p>
      <p>Log in with the credentials below and change your password after first use:</p>
      <table style="width:100%%;border-collapse:collapse;margin-top:20px;">
        <tr><td><strong>Email:</strong></td><td>%s</td></tr>
        <tr><td><strong>Password:</strong></td><td>%s</td></tr>
        <tr><td><strong>Reference Code:</strong></td><td>%s</td></tr>
      </table>
      <p style="margin-top:20px;">Share your reference code to attribute referrals to your account.</p>`,
		email, password, referenceCode)
	return "Your partner account is ready", renderMail("Welcome aboard, "+name+"!", content)
}

func partnerRejectedMail(name string) (string, string) {
	content := `
      <p>Thank you for your interest in our partner program.</p>
      <p>After review we are unable to approve your application at this time.
      You are welcome to apply again in the future.</p>`
	return "Partner application update", renderMail("Hello, "+name, content)
}

func otpMail(name, code string, ttl time.Duration) (string, string) {
	content := fmt.Sprintf(`
      <p>We received a request to reset your password.</p>
      <p style="font-size:24px;letter-spacing:6px;margin:20px 0;"><strong>%s</strong></p>
      <p>The code expires in %d minutes. If you did not request this, you can ignore this email.</p>`,
		code, int(ttl.Minutes()))
	return "Your password reset code", renderMail("Hello, "+name, content)
}

func referralThanksMail(name string) (string, string) {
	content := `
      <p>Thank you for your submission. Our team will review the details and
      reach out with next steps.</p>`
	return "Thanks for your referral", renderMail("Thank you, "+name+"!", content)
}

func referralStatusMail(name, status string) (string, string) {
	content := fmt.Sprintf(`
      <p>The status of your referral has been updated to <strong>%s</strong>.</p>
      <p>We will keep you posted on further changes.</p>`, status)
	return "Referral status updated", renderMail("Hello, "+name, content)
}

func partnerReferralStatusMail(partnerName, referralName, status string) (string, string) {
	content := fmt.Sprintf(`
      <p>The referral <strong>%s</strong> attributed to your reference code has
      moved to status <strong>%s</strong>.</p>`, referralName, status)
	return "A referral of yours was updated", renderMail("Hello, "+partnerName, content)
}
