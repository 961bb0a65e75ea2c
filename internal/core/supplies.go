package core

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/pantryworks/trackhub/internal/logging"
	"github.com/pantryworks/trackhub/internal/normalize"
	"github.com/pantryworks/trackhub/internal/schema"
	"github.com/pantryworks/trackhub/internal/tabular"
)

var orderIDPattern = regexp.MustCompile(`^\d{12}$`)

// OrderStatusCompleted is the fixed status written on every recorded order.
const OrderStatusCompleted = "Completed"

// catalogSlot is one fixed item slot of a supplies request.
type catalogSlot struct {
	name string
	unit string
	qty  func(q ItemQuantities) float64
}

// itemCatalog is the fixed slot order lines are written in. The composed
// Flea/Tick line goes between the cat slots and the straw/bed slots, and
// the free-form Other line comes last.
var itemCatalog = []catalogSlot{
	{"Dry Dog Food", "lbs", func(q ItemQuantities) float64 { return q.DryDogLbs }},
	{"Wet Dog Food (cans)", "each", func(q ItemQuantities) float64 { return q.WetDogCans }},
	{"Dog Treat(s)", "each", func(q ItemQuantities) float64 { return q.DogTreats }},
	{"Dog Toy(s)", "each", func(q ItemQuantities) float64 { return q.DogToys }},
	{"Dog Leash(es)", "each", func(q ItemQuantities) float64 { return q.DogLeashes }},
	{"Dog Collar(s)", "each", func(q ItemQuantities) float64 { return q.DogCollars }},
	{"Dry Cat Food", "lbs", func(q ItemQuantities) float64 { return q.DryCatLbs }},
	{"Wet Cat Food (cans)", "each", func(q ItemQuantities) float64 { return q.WetCatCans }},
	{"Cat Litter", "lbs", func(q ItemQuantities) float64 { return q.CatLitterLbs }},
	{"Cat Treat(s)", "each", func(q ItemQuantities) float64 { return q.CatTreats }},
	{"Cat Toy(s)", "each", func(q ItemQuantities) float64 { return q.CatToys }},
	{"Cat Collar(s)", "each", func(q ItemQuantities) float64 { return q.CatCollars }},
}

var trailingCatalog = []catalogSlot{
	{"Straw (bales)", "bale", func(q ItemQuantities) float64 { return q.StrawBales }},
	{"Pet Bed", "each", func(q ItemQuantities) float64 { return q.PetBeds }},
}

// lineItem is a pending supply line before it is written.
type lineItem struct {
	Name  string
	Qty   float64
	Unit  string
	Notes string
}

// FleaTickBrands returns the configured flea/tick med brand list.
func (s *Service) FleaTickBrands() []string {
	brands := make([]string, 0, len(s.cfg.Supplies.FleaTickBrands))
	for _, b := range s.cfg.Supplies.FleaTickBrands {
		if b = strings.TrimSpace(b); b != "" {
			brands = append(brands, b)
		}
	}
	return brands
}

// programFromZip derives the pantry program from a client ZIP prefix.
func programFromZip(zip string) string {
	z := strings.TrimSpace(zip)
	if strings.HasPrefix(z, "14211") || strings.HasPrefix(z, "14215") {
		return "PFL"
	}
	if strings.HasPrefix(z, "14208") {
		return "PSCI"
	}
	return "Outreach Pantry"
}

// buildOrderLines expands a request into pending lines in fixed slot order.
// A slot produces a line only when its quantity is positive.
func buildOrderLines(req OrderRequest) []lineItem {
	var items []lineItem
	add := func(name string, qty float64, unit, notes string) {
		if name == "" || qty <= 0 {
			return
		}
		items = append(items, lineItem{Name: name, Qty: qty, Unit: unit, Notes: notes})
	}

	for _, slot := range itemCatalog {
		add(slot.name, slot.qty(req.Items), slot.unit, "")
	}

	if ft := req.FleaTick; ft != nil && ft.Qty > 0 {
		parts := []string{"Flea/Tick Meds"}
		for _, p := range []string{ft.Species, ft.Brand, ft.Size} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		add(strings.Join(parts, " - "), ft.Qty, "each", "")
	}

	for _, slot := range trailingCatalog {
		add(slot.name, slot.qty(req.Items), slot.unit, "")
	}

	if o := req.Other; o != nil {
		unit := strings.TrimSpace(o.Unit)
		if unit == "" {
			unit = "each"
		}
		add(strings.TrimSpace(o.ItemName), o.Qty, unit, o.Notes)
	}

	return items
}

// CreateOrder records one supply order and its line items. ClientID and ZIP
// are resolved from the client row best-effort: failure leaves them blank
// rather than aborting the order.
func (s *Service) CreateOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	clientRowID := strings.TrimSpace(req.ClientRowID)
	if clientRowID == "" {
		return OrderResult{}, validationErr("ClientRowId required")
	}

	clientID, zip := s.resolveClientForOrder(ctx, clientRowID)
	program := programFromZip(zip)

	orders, err := s.table(ctx, s.cfg.Sheets.Orders)
	if err != nil {
		return OrderResult{}, err
	}
	lines, err := s.table(ctx, s.cfg.Sheets.Lines)
	if err != nil {
		return OrderResult{}, err
	}
	orderHeader, orderIx, err := tabular.EnsureColumns(ctx, orders, schema.OrderColumns)
	if err != nil {
		return OrderResult{}, err
	}
	lineHeader, lineIx, err := tabular.EnsureColumns(ctx, lines, schema.LineColumns)
	if err != nil {
		return OrderResult{}, err
	}

	pending := buildOrderLines(req)

	var result OrderResult
	err = s.withLock(ctx, func() error {
		now := s.now()
		actor := ActorFromContext(ctx)

		orderID, err := s.nextOrderID(ctx, orders, orderIx)
		if err != nil {
			return err
		}

		svcDate, parsed := normalize.ServiceDate(req.ServiceDate, now)
		if !parsed && strings.TrimSpace(req.ServiceDate) != "" {
			logging.FromContext(ctx).Warn("unparseable service date, using current date",
				slog.String("raw", req.ServiceDate))
		}

		orderWrite := Record{
			schema.OrderID:           orderID,
			schema.OrderClientID:     clientID,
			schema.OrderCaseID:       "",
			schema.OrderServiceDate:  svcDate.Format(normalize.DateLayout),
			schema.OrderProgram:      program,
			schema.OrderDeliveryType: strings.TrimSpace(req.DeliveryType),
			schema.OrderStatus:       OrderStatusCompleted,
			schema.OrderNotes:        req.Notes,
			schema.OrderEnteredBy:    actor,
			schema.OrderCreatedAt:    normalize.Timestamp(now),
			schema.OrderUpdatedAt:    normalize.Timestamp(now),
		}

		orderRowNum, err := orders.RowCount(ctx)
		if err != nil {
			return err
		}
		orderRow := make([]string, len(orderHeader))
		applyWrite(orderRow, orderIx, orderWrite)
		if err := orders.WriteRow(ctx, orderRowNum+1, orderRow); err != nil {
			return err
		}

		lineRowNum, err := lines.RowCount(ctx)
		if err != nil {
			return err
		}
		for i, item := range pending {
			lineWrite := Record{
				schema.LineID:        strconv.Itoa(i + 1),
				schema.LineOrderID:   orderID,
				schema.LineItemName:  item.Name,
				schema.LineQty:       strconv.FormatFloat(item.Qty, 'f', -1, 64),
				schema.LineUnit:      item.Unit,
				schema.LineNotes:     item.Notes,
				schema.LineCreatedAt: normalize.Timestamp(now),
				schema.LineCreatedBy: actor,
			}
			lineRow := make([]string, len(lineHeader))
			applyWrite(lineRow, lineIx, lineWrite)
			if err := lines.WriteRow(ctx, lineRowNum+i+1, lineRow); err != nil {
				return err
			}
		}

		result = OrderResult{
			OrderID:   orderID,
			LineCount: len(pending),
			Program:   program,
			ClientID:  clientID,
		}
		return nil
	})
	if err != nil {
		return OrderResult{}, err
	}

	s.recordAudit(ctx, "order_created", result.OrderID,
		fmt.Sprintf("%d line(s), program %s", result.LineCount, result.Program))
	orderLog := logging.WithFields(ctx,
		slog.String("order_id", result.OrderID),
		slog.String("client_row", clientRowID),
		slog.String("ip", IPAddressFromContext(ctx)))
	orderLog.Info("order recorded",
		slog.Int("lines", result.LineCount),
		slog.String("program", result.Program))
	return result, nil
}

// resolveClientForOrder reads ClientID and ZIP from the client row.
// Any failure logs and returns blanks; the order still goes through.
func (s *Service) resolveClientForOrder(ctx context.Context, clientRowID string) (clientID, zip string) {
	rowNum, err := strconv.Atoi(clientRowID)
	if err != nil || rowNum < 1 {
		logging.FromContext(ctx).Info("could not resolve client for order",
			slog.String("client_row", clientRowID))
		return "", ""
	}

	tbl, err := s.table(ctx, s.cfg.Sheets.Clients)
	if err != nil {
		logging.FromContext(ctx).Info("could not resolve client for order", slog.Any("error", err))
		return "", ""
	}
	header, err := tbl.Header(ctx)
	if err != nil {
		logging.FromContext(ctx).Info("could not resolve client for order", slog.Any("error", err))
		return "", ""
	}
	row, err := tbl.Row(ctx, rowNum, len(header))
	if err != nil {
		logging.FromContext(ctx).Info("could not resolve client for order", slog.Any("error", err))
		return "", ""
	}

	ix := tabular.NewIndex(header)
	return strings.TrimSpace(ix.Value(row, schema.ClientID)), strings.TrimSpace(ix.Value(row, schema.ZIP))
}

// nextOrderID returns max(existing 12-digit IDs, configured floor) + 1,
// zero-padded to 12 digits. The counter is global, not per day.
func (s *Service) nextOrderID(ctx context.Context, orders tabular.Table, ix tabular.Index) (string, error) {
	maxID := s.cfg.Supplies.OrderIDFloor

	rows, err := orders.Rows(ctx)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		v := strings.TrimSpace(ix.Value(row, schema.OrderID))
		// Fixed-width numeric strings compare correctly as strings.
		if orderIDPattern.MatchString(v) && v > maxID {
			maxID = v
		}
	}

	n, err := strconv.ParseUint(maxID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("order id floor %q: %w", maxID, err)
	}
	return fmt.Sprintf("%012d", n+1), nil
}
