package usecase

import (
	"context"
	"errors"

	"EconDash/internal/domain/models"
	domsvc "EconDash/internal/domain/service"
)

// GenericFailureMessage is shown when a call fails without a usable reason.
const GenericFailureMessage = "An error occurred while fetching predictions"

// SupersedePolicy decides what happens to an in-flight call when a newer
// submit arrives.
type SupersedePolicy string

const (
	// LatestSubmit cancels the previous call and discards its settlement.
	LatestSubmit SupersedePolicy = "latest_submit"
	// LastSettled lets every call run and applies settlements in arrival order.
	LastSettled SupersedePolicy = "last_settled"
)

// ParseSupersedePolicy maps a config value to a policy, defaulting to LatestSubmit.
func ParseSupersedePolicy(s string) SupersedePolicy {
	if SupersedePolicy(s) == LastSettled {
		return LastSettled
	}
	return LatestSubmit
}

// FailureMessage maps an error to the text shown in the error banner.
func FailureMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message()
	}
	var ue domsvc.UserFacingError
	if errors.As(err, &ue) && ue.UserMessage() != "" {
		return ue.UserMessage()
	}
	return GenericFailureMessage
}

// OnSubmitRejected is the transition for a submit that failed validation.
// No call is made, so the state goes straight to Failure.
func OnSubmitRejected(_ models.RequestState, seq uint64, err error) models.RequestState {
	return models.FailureState(seq, FailureMessage(err))
}

// OnSubmitAccepted is the transition for a valid submit, from any state.
func OnSubmitAccepted(_ models.RequestState, seq uint64) models.RequestState {
	return models.LoadingState(seq)
}

// OnSettled is the transition for the settlement of call seq. Under
// LatestSubmit every submit stamps the state with its own seq, so a
// settlement is current only while prev is Loading with the same seq;
// anything else is stale and prev is returned with applied=false.
func OnSettled(prev models.RequestState, seq uint64, p models.Prediction, err error, policy SupersedePolicy) (models.RequestState, bool) {
	if policy != LastSettled && (prev.Seq != seq || !prev.IsLoading()) {
		return prev, false
	}
	return settledState(seq, p, err), true
}

// settledState is the state a call settles into on its own, whether or not
// it ends up applied.
func settledState(seq uint64, p models.Prediction, err error) models.RequestState {
	switch {
	case err == nil:
		return models.SuccessState(seq, p)
	case errors.Is(err, context.Canceled):
		// Cancelled calls report nothing to the user.
		s := models.IdleState()
		s.Seq = seq
		return s
	default:
		return models.FailureState(seq, FailureMessage(err))
	}
}
