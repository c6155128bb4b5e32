package checkout

import (
	"fmt"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
)

type Step string

const (
	StepCart         Step = "cart"
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
	StepSubmitting   Step = "submitting"
	StepSuccess      Step = "success"
	StepFailed       Step = "failed"
	StepCancelled    Step = "cancelled"
)

func (s Step) String() string {
	return string(s)
}

type event string

const (
	eventNext    event = "next"
	eventBack    event = "back"
	eventRetry   event = "retry"
	eventSubmit  event = "submit"
	eventSucceed event = "succeed"
	eventFail    event = "fail"
	eventCancel  event = "cancel"
	eventReset   event = "reset"
)

// transitions lists every legal edge. Guards on field validity run before it is consulted.
var transitions = map[Step]map[event]Step{
	StepCart: {
		eventNext:   StepShipping,
		eventCancel: StepCancelled,
	},
	StepShipping: {
		eventNext:   StepPayment,
		eventBack:   StepCart,
		eventCancel: StepCancelled,
	},
	StepPayment: {
		eventNext:   StepConfirmation,
		eventBack:   StepShipping,
		eventCancel: StepCancelled,
	},
	StepConfirmation: {
		eventBack:   StepPayment,
		eventSubmit: StepSubmitting,
		eventCancel: StepCancelled,
	},
	StepSubmitting: {
		eventSucceed: StepSuccess,
		eventFail:    StepFailed,
	},
	StepFailed: {
		eventRetry:  StepConfirmation,
		eventBack:   StepPayment,
		eventSubmit: StepSubmitting,
		eventCancel: StepCancelled,
	},
	StepSuccess: {
		eventReset:  StepCart,
		eventCancel: StepCancelled,
	},
	StepCancelled: {},
}

func nextStep(from Step, ev event) (Step, error) {
	if from == StepSubmitting && ev != eventSucceed && ev != eventFail {
		return from, errors.SubmissionInProgressError("An order submission is already in progress")
	}

	to, ok := transitions[from][ev]
	if !ok {
		return from, errors.InvalidTransitionError(fmt.Sprintf("Cannot %s from the %s step", ev, from))
	}

	return to, nil
}

// editable reports whether form data may change in this step.
func (s Step) editable() bool {
	switch s {
	case StepCart, StepShipping, StepPayment, StepConfirmation, StepFailed:
		return true
	default:
		return false
	}
}
