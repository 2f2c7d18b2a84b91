package notify

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"canteen-api/metrics"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	SubjectOrderPlaced = "Order Placed Successfully 🍽️"
	SubjectOrderReady  = "Your Order is Ready 🍽️"
	SubjectDailyReport = "Daily Sales Report"
)

var (
	orderPlacedTmpl = template.Must(template.New("placed").Parse(`
<h3>Hello {{.Name}},</h3>
<p>Your order has been placed successfully.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p>Please wait while your order is being prepared.</p>
<br/>
<p>Thank you for using the Canteen Management System.</p>
`))

	orderReadyTmpl = template.Must(template.New("ready").Parse(`
<h3>Hello {{.Name}},</h3>
<p>Your order <strong>#{{.OrderID}}</strong> is now <b>READY</b>.</p>
<p>Please collect it from the canteen.</p>
<br/>
<p>Thank you!</p>
`))

	dailyReportTmpl = template.Must(template.New("report").Parse(`
<h3>Daily Sales Report</h3>
<p><b>Date:</b> {{.Date}}</p>
<p><b>Total Orders:</b> {{.Count}}</p>
<p><b>Total Sales:</b> ₹{{.Total}}</p>
`))
)

// Dispatcher renders the application's emails and hands them to a Mailer.
type Dispatcher struct {
	mailer Mailer
}

func NewDispatcher(m Mailer) *Dispatcher {
	return &Dispatcher{mailer: m}
}

// OrderPlaced confirms a paid order to its owner.
func (d *Dispatcher) OrderPlaced(ctx context.Context, to, name string, orderID uint) error {
	return d.send(ctx, "order_placed", to, SubjectOrderPlaced, orderPlacedTmpl, map[string]any{
		"Name": name, "OrderID": orderID,
	})
}

// OrderReady tells the owner to collect the order.
func (d *Dispatcher) OrderReady(ctx context.Context, to, name string, orderID uint) error {
	return d.send(ctx, "order_ready", to, SubjectOrderReady, orderReadyTmpl, map[string]any{
		"Name": name, "OrderID": orderID,
	})
}

// DailyReport sends one canteen's totals for a day to its staff.
func (d *Dispatcher) DailyReport(ctx context.Context, to string, day time.Time, count int, total decimal.Decimal) error {
	return d.send(ctx, "daily_report", to, SubjectDailyReport, dailyReportTmpl, map[string]any{
		"Date": day.Format(time.DateOnly), "Count": count, "Total": total.String(),
	})
}

func (d *Dispatcher) send(ctx context.Context, kind, to, subject string, tmpl *template.Template, data any) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, to, subject, body.String()); err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "error").Inc()
		zerolog.Ctx(ctx).Error().Err(err).Str("kind", kind).Str("to", to).Msg("notify: send failed")
		return err
	}
	metrics.EmailsSent.WithLabelValues(kind, "ok").Inc()
	zerolog.Ctx(ctx).Info().Str("kind", kind).Str("to", to).Msg("notify: email sent")
	return nil
}
