package scoringhandlers

import "github.com/ThreeDotsLabs/watermill/message"

// Handlers is the scoring module's message handler surface, consumed by the
// router when binding topics.
type Handlers interface {
	HandleScoringRunRequested(msg *message.Message) ([]*message.Message, error)
}
