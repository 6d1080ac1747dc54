package services

import (
	"fmt"
	"time"

	"github.com/kendall-kelly/car-rent-api/models"
)

// OrderEvent is a requested lifecycle change of an order
type OrderEvent int

const (
	EventAccept OrderEvent = iota
	EventReject
	EventCancel
	EventConfirmStart
	EventFinish
)

func (e OrderEvent) String() string {
	switch e {
	case EventAccept:
		return "accept"
	case EventReject:
		return "reject"
	case EventCancel:
		return "cancel"
	case EventConfirmStart:
		return "confirm_start"
	case EventFinish:
		return "finish"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Actor is the caller's relationship to an order
type Actor int

const (
	ActorNone Actor = iota
	ActorRenter
	ActorLessor
)

func (a Actor) String() string {
	switch a {
	case ActorRenter:
		return "renter"
	case ActorLessor:
		return "lessor"
	default:
		return "none"
	}
}

// ActorFor resolves how userID relates to an order on a car owned by ownerID
func ActorFor(order *models.Order, ownerID, userID uint) Actor {
	switch userID {
	case order.RenterID:
		return ActorRenter
	case ownerID:
		return ActorLessor
	default:
		return ActorNone
	}
}

type transitionRule struct {
	actors []Actor
	from   models.OrderStatus
	to     models.OrderStatus
}

var orderTransitions = map[OrderEvent]transitionRule{
	EventAccept:       {actors: []Actor{ActorLessor}, from: models.OrderStatusUnderConsideration, to: models.OrderStatusAccepted},
	EventReject:       {actors: []Actor{ActorLessor}, from: models.OrderStatusUnderConsideration, to: models.OrderStatusRejected},
	EventCancel:       {actors: []Actor{ActorRenter}, from: models.OrderStatusUnderConsideration, to: models.OrderStatusCanceled},
	EventConfirmStart: {actors: []Actor{ActorRenter, ActorLessor}, from: models.OrderStatusAccepted, to: models.OrderStatusInProgress},
	EventFinish:       {actors: []Actor{ActorLessor}, from: models.OrderStatusInProgress, to: models.OrderStatusFinished},
}

// TransitionError is returned when the order is not in the status an event requires
type TransitionError struct {
	Event    OrderEvent
	Required models.OrderStatus
	Target   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order must be in status %s to apply %s", e.Required, e.Target)
}

// ServiceError exposes the transition failure as a conflict
func (e *TransitionError) ServiceError() *ServiceError {
	return conflictError("INVALID_ORDER_STATUS", e.Error())
}

// Permits reports whether actor may trigger event at all
func Permits(event OrderEvent, actor Actor) bool {
	rule, ok := orderTransitions[event]
	if !ok {
		return false
	}
	for _, a := range rule.actors {
		if a == actor {
			return true
		}
	}
	return false
}

// Apply computes the order that results from actor triggering event at now.
// The input order is not modified.
func Apply(order models.Order, event OrderEvent, actor Actor, now time.Time) (models.Order, error) {
	rule, ok := orderTransitions[event]
	if !ok {
		return order, fmt.Errorf("unknown order event %s", event)
	}
	if !Permits(event, actor) {
		return order, forbiddenError("FORBIDDEN", fmt.Sprintf("the %s of the order cannot %s it", actor, event))
	}
	if order.Status != rule.from {
		return order, &TransitionError{Event: event, Required: rule.from, Target: rule.to}
	}

	next := order
	switch event {
	case EventConfirmStart:
		// both parties confirm independently; the second confirmation starts the rent
		if actor == ActorRenter {
			next.IsRenterConfirmedStart = true
		} else {
			next.IsLessorConfirmedStart = true
		}
		if next.IsRenterConfirmedStart && next.IsLessorConfirmedStart {
			started := now
			next.Status = rule.to
			next.StartRentTime = &started
		}
	case EventFinish:
		finished := now
		next.Status = rule.to
		next.FinishDatetime = &finished
	default:
		next.Status = rule.to
	}
	return next, nil
}

// EnsureWindowEditable rejects desired window edits once the order left consideration
func EnsureWindowEditable(status models.OrderStatus) error {
	if status != models.OrderStatusUnderConsideration {
		return forbiddenError("ORDER_NOT_EDITABLE", "cannot modify an approved order")
	}
	return nil
}
