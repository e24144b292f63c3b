package tracker

import "cafeteria/internal/domain"

type Badge struct {
	Label string `json:"label"`
	Style string `json:"style"`
}

const NeutralStyle = "bg-gray-100 text-gray-800"

var badges = map[domain.OrderStatus]Badge{
	domain.OrderStatusPaymentPending: {Label: "Pendiente de pago", Style: "bg-yellow-100 text-yellow-800"},
	domain.OrderStatusPaid:           {Label: "Pagado", Style: "bg-green-100 text-green-800"},
	domain.OrderStatusInQueue:        {Label: "En cola", Style: "bg-blue-100 text-blue-800"},
	domain.OrderStatusPreparing:      {Label: "Preparando", Style: "bg-orange-100 text-orange-800"},
	domain.OrderStatusReady:          {Label: "Listo para recoger!", Style: "bg-emerald-100 text-emerald-800"},
	domain.OrderStatusPickedUp:       {Label: "Recogido", Style: "bg-gray-200 text-gray-700"},
	domain.OrderStatusCanceled:       {Label: "Cancelado", Style: "bg-red-100 text-red-800"},
}

// BadgeFor never fails: unknown statuses are shown as-is.
func BadgeFor(status domain.OrderStatus) Badge {
	if b, ok := badges[status]; ok {
		return b
	}
	if status == "" {
		return Badge{Label: "---", Style: NeutralStyle}
	}
	return Badge{Label: string(status), Style: NeutralStyle}
}

type ViewState string

const (
	ViewLoading   ViewState = "loading"
	ViewError     ViewState = "error"
	ViewEmpty     ViewState = "empty"
	ViewPopulated ViewState = "populated"
)

func ViewStateOf(authLoading, queryLoading bool, queryErr error, count int) ViewState {
	switch {
	case authLoading || queryLoading:
		return ViewLoading
	case queryErr != nil:
		return ViewError
	case count == 0:
		return ViewEmpty
	default:
		return ViewPopulated
	}
}
