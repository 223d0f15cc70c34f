package rebalancer

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/walletevent"
)

const (
	// EventRebalancePlanned is emitted once a plan has been produced,
	// including the no-rebalance-needed case.
	EventRebalancePlanned walletevent.EventType = "rebalance-planned"

	EventApprovalSubmitted walletevent.EventType = "rebalance-approval-submitted"
	EventApprovalConfirmed walletevent.EventType = "rebalance-approval-confirmed"
	EventBatchSubmitted    walletevent.EventType = "rebalance-batch-submitted"
	EventBatchConfirmed    walletevent.EventType = "rebalance-batch-confirmed"
	EventRebalanceFailed   walletevent.EventType = "rebalance-failed"
)

func (s *Service) emit(eventType walletevent.EventType, owner common.Address, payload interface{}) {
	if s.feed == nil {
		return
	}
	event := walletevent.New(eventType, s.config.ChainID, owner)
	if payload != nil {
		event = event.WithPayload(payload)
	}
	s.feed.Send(event)
}

// SubscribeToEvents lets a consumer follow the rebalance lifecycle.
func (s *Service) SubscribeToEvents(ch chan<- walletevent.Event) event.Subscription {
	return s.feed.Subscribe(ch)
}
