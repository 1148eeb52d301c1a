package notify

import (
	"bytes"
	"html/template"
	"strconv"
	"time"
)

const (
	SubjectVerify = "Verify your email · Seeker"
	SubjectResend = "New verification code · Seeker"
)

var verificationTpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Verify your email</title>
  </head>
  <body style="margin:0;padding:0;background:#f5f7ff;font-family:Segoe UI,Arial,sans-serif;color:#111;">
    <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background:#f5f7ff;padding:24px 0;">
      <tr>
        <td align="center">
          <table role="presentation" width="640" cellspacing="0" cellpadding="0" style="background:#ffffff;border-radius:16px;overflow:hidden;">
            <tr>
              <td style="background:linear-gradient(90deg,#0927eb,#3a5bfa);padding:20px 24px">
                <img src="{{.LogoURL}}" alt="Seeker" style="height:40px;display:block">
              </td>
            </tr>
            <tr>
              <td style="padding:28px 28px 8px 28px;">
                <h1 style="margin:0 0 8px 0;font-size:22px;color:#0b1a3a;">Verify your email</h1>
                <p style="margin:0;color:#445;line-height:1.5;">Use the one-time code below to verify your Seeker account. This code is valid for {{.ValidFor}}.</p>
              </td>
            </tr>
            <tr>
              <td align="center" style="padding:8px 28px 24px 28px">
                <div style="font-size:32px;letter-spacing:6px;font-weight:800;color:#0927eb;background:#eef2ff;border:2px solid #3a5bfa;border-radius:12px;padding:16px 24px;display:inline-block">{{.Code}}</div>
              </td>
            </tr>
            <tr>
              <td style="padding:0 28px 24px 28px;">
                <a href="{{.VerifyURL}}" style="display:inline-block;background:#0927eb;color:#fff;text-decoration:none;padding:12px 18px;border-radius:10px;font-weight:600">Open verification page</a>
              </td>
            </tr>
            <tr>
              <td style="padding:0 28px 28px 28px;color:#667;">
                <p style="font-size:12px;line-height:1.6;margin:0">If you didn't create a Seeker account, please ignore this email.</p>
              </td>
            </tr>
          </table>
          <div style="color:#99a;font-size:12px;margin-top:16px;">&copy; {{.Year}} Seeker</div>
        </td>
      </tr>
    </table>
  </body>
</html>`))

// VerificationEmail renders the message carrying a one-time code. baseURL is
// the externally reachable site root without a trailing slash.
func VerificationEmail(baseURL, code string, validFor time.Duration) (string, error) {
	var buf bytes.Buffer
	err := verificationTpl.Execute(&buf, map[string]any{
		"Code":      code,
		"LogoURL":   baseURL + "/static/Seeker%20Logo.png",
		"VerifyURL": baseURL + "/verify",
		"ValidFor":  humanMinutes(validFor),
		"Year":      time.Now().Year(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func humanMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return strconv.Itoa(m) + " minutes"
}
