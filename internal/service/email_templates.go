package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const emailLayout = `{{define "layout"}}<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
  </head>
  <body style="margin:0;padding:0;background:#f6f4ef;font-family:Georgia,serif;color:#1c1c1c;">
    <table width="100%" cellpadding="0" cellspacing="0">
      <tr>
        <td align="center" style="padding:32px 16px;">
          <table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;">
            {{template "body" .}}
            <tr>
              <td style="padding:24px;font-size:12px;color:#8a8a8a;text-align:center;">
                You are receiving this because you work with or follow this brokerage.
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>{{end}}`

const soldBody = `{{define "body"}}
<tr>
  {{if .HeroImage}}<td><img src="{{.HeroImage}}" alt="{{.Address}}" width="600" style="display:block;"></td>{{end}}
</tr>
<tr>
  <td style="padding:32px 24px;">
    <p style="letter-spacing:3px;font-size:12px;text-transform:uppercase;color:#a3874f;">Just Sold</p>
    <h1 style="font-weight:normal;margin:0 0 8px;">{{.Address}}</h1>
    <p style="margin:0 0 24px;">{{.City}}, {{.Province}}</p>
    <p style="font-size:22px;margin:0 0 8px;">Sold for {{.SoldPrice}}</p>
    {{if .ListPrice}}<p style="margin:0 0 8px;color:#555;">Listed at {{.ListPrice}}</p>{{end}}
    {{if .DaysOnMarket}}<p style="margin:0 0 8px;color:#555;">{{.DaysOnMarket}} days on market</p>{{end}}
    {{if .Details}}<p style="margin:16px 0 0;color:#555;">{{.Details}}</p>{{end}}
  </td>
</tr>
{{end}}`

const leadBody = `{{define "body"}}
<tr>
  <td style="padding:32px 24px;">
    <h1 style="font-weight:normal;margin:0 0 16px;">{{.Heading}}</h1>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
    {{if .Property}}<p><strong>Property:</strong> {{.Property}}</p>{{end}}
    {{if .PreferredTime}}<p><strong>Preferred time:</strong> {{.PreferredTime}}</p>{{end}}
    {{if .Message}}<p style="white-space:pre-line;">{{.Message}}</p>{{end}}
  </td>
</tr>
{{end}}`

var (
	soldTemplate = template.Must(template.Must(template.New("sold").Parse(emailLayout)).Parse(soldBody))
	leadTemplate = template.Must(template.Must(template.New("lead").Parse(emailLayout)).Parse(leadBody))
)

// SoldEmailData fields of the sold-notification template; prices preformatted.
type SoldEmailData struct {
	Title        string
	Address      string
	City         string
	Province     string
	SoldPrice    string
	ListPrice    string
	DaysOnMarket int
	HeroImage    string
	Details      string
}

// LeadEmailData fields of the agent's new-lead template.
type LeadEmailData struct {
	Title         string
	Heading       string
	Name          string
	Email         string
	Phone         string
	Property      string
	PreferredTime string
	Message       string
}

// EmailRenderer executes the templates and minifies the output.
type EmailRenderer struct {
	minifier *minify.M
}

func NewEmailRenderer() *EmailRenderer {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	return &EmailRenderer{minifier: m}
}

func (r *EmailRenderer) render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	out, err := r.minifier.String("text/html", buf.String())
	if err != nil {
		// Unminified HTML is still a valid email.
		return buf.String(), nil
	}
	return out, nil
}

func (r *EmailRenderer) RenderSold(data SoldEmailData) (string, error) {
	return r.render(soldTemplate, data)
}

func (r *EmailRenderer) RenderLead(data LeadEmailData) (string, error) {
	return r.render(leadTemplate, data)
}

// FormatCAD whole dollars with thousands separators, e.g. $1,250,000.
func FormatCAD(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
