package schema

// Supply order column headers.
const (
	OrderID           = "OrderID"
	OrderClientID     = "ClientID"
	OrderCaseID       = "CaseID"
	OrderServiceDate  = "ServiceDate"
	OrderProgram      = "Program"
	OrderDeliveryType = "DeliveryType"
	OrderStatus       = "OrderStatus"
	OrderNotes        = "Notes"
	OrderEnteredBy    = "EnteredBy"
	OrderCreatedAt    = "CreatedAt"
	OrderUpdatedAt    = "UpdatedAt"
)

// OrderColumns is the full order column set in header order.
var OrderColumns = []string{
	OrderID, OrderClientID, OrderCaseID, OrderServiceDate, OrderProgram,
	OrderDeliveryType, OrderStatus, OrderNotes, OrderEnteredBy,
	OrderCreatedAt, OrderUpdatedAt,
}

// Supply line column headers.
const (
	LineID        = "LineID"
	LineOrderID   = "OrderID"
	LineItemName  = "ItemName"
	LineQty       = "Qty"
	LineUnit      = "Unit"
	LineNotes     = "Notes"
	LineCreatedAt = "CreatedAt"
	LineCreatedBy = "CreatedBy"
)

// LineColumns is the full line column set in header order.
var LineColumns = []string{
	LineID, LineOrderID, LineItemName, LineQty, LineUnit, LineNotes,
	LineCreatedAt, LineCreatedBy,
}
