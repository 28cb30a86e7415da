package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tb0023/biz_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendOTPCode 发送邮箱验证码
func (s *Service) SendOTPCode(to, code string) error {
	subject := "验证码 - 中小企业服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">邮箱验证</h2>
        <p>您好，</p>
        <p>您正在注册中小企业服务平台账号，验证码为：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>验证码有效期为 10 分钟，请尽快完成验证。</p>
        <p>如果您没有进行此操作，请忽略此邮件。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, code)

	return s.sendHTML(to, subject, body)
}

// SendWelcome 发送欢迎邮件
func (s *Service) SendWelcome(to, companyName string) error {
	subject := "欢迎加入 - 中小企业服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">欢迎加入！</h2>
        <p>%s，您好！</p>
        <p>感谢您注册中小企业服务平台。</p>
        <p>现在您可以：</p>
        <ul>
            <li>录入员工名册，开通薪资代发服务</li>
            <li>开通税务申报，上传税务资料</li>
            <li>预约一对一企业顾问咨询</li>
        </ul>
        <p>开始使用吧！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, companyName)

	return s.sendHTML(to, subject, body)
}

// SendPayrollReceipt 发送发薪回执
func (s *Service) SendPayrollReceipt(to string, employeeCount int, feePercent int, totalCharged decimal.Decimal) error {
	subject := "发薪回执 - 中小企业服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">本期发薪已完成</h2>
        <p>您好，</p>
        <p>本期发薪已处理完成，明细如下：</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
            <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">发薪人数</td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">%d 人</td></tr>
            <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">服务费率</td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">%d%%</td></tr>
            <tr><td style="padding: 8px;">扣款总额</td><td style="padding: 8px; text-align: right; font-weight: bold;">%s</td></tr>
        </table>
        <p>详细流水可在控制台「账单」页查看。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, employeeCount, feePercent, totalCharged.StringFixed(2))

	return s.sendHTML(to, subject, body)
}

// SendPayrollReminder 发送发薪日提醒
func (s *Service) SendPayrollReminder(to, nextDate string) error {
	subject := "发薪日提醒 - 中小企业服务平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">发薪日临近</h2>
        <p>您好，</p>
        <p>贵公司的下一个发薪日为 <strong>%s</strong>，请提前确认员工名册与账户余额。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, nextDate)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
