package order

// Status 表示订单生命周期状态，只允许向前流转。
type Status string

const (
	StatusPlaced    Status = "ORDER_PLACED"
	StatusAccepted  Status = "ACCEPTED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

func (s Status) String() string { return string(s) }

// IsValid 判断状态取值是否合法。
func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusAccepted, StatusPreparing, StatusReady,
		StatusCompleted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal 判断是否为终态，终态订单不再提供任何操作。
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// Action 表示操作员可以对订单执行的一次状态流转。
type Action string

const (
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionPrepare Action = "prepare"
	ActionReady   Action = "ready"
)

// ActionsFor 返回某个状态下允许的全部操作；终态返回空。
func ActionsFor(s Status) []Action {
	switch s {
	case StatusPlaced:
		return []Action{ActionAccept, ActionReject}
	case StatusAccepted:
		return []Action{ActionPrepare}
	case StatusPreparing:
		return []Action{ActionReady}
	default:
		return nil
	}
}

// CanApply 判断某个操作在当前状态下是否允许。
func CanApply(s Status, a Action) bool {
	for _, allowed := range ActionsFor(s) {
		if allowed == a {
			return true
		}
	}
	return false
}

// NextStatus 返回该操作成功后服务端会落入的状态。
// 客户端不把它当真相，只用于乐观展示。
func NextStatus(a Action) Status {
	switch a {
	case ActionAccept:
		return StatusAccepted
	case ActionReject:
		return StatusRejected
	case ActionPrepare:
		return StatusPreparing
	case ActionReady:
		return StatusReady
	default:
		return ""
	}
}

// PaymentStatus 表示支付状态；只有 PAID 订单进入操作视图。
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// FulfilmentType 表示取餐方式，对本核心只做展示。
type FulfilmentType string

const (
	FulfilDelivery FulfilmentType = "DELIVERY"
	FulfilPickup   FulfilmentType = "PICKUP"
	FulfilDineIn   FulfilmentType = "DINE_IN"
)
