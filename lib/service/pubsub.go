package service

import (
	"sync"

	"github.com/tenderdesk/ledgerhub/db/models"
)

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.Entry
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.Entry)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.Entry) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.Entry)
	}
	idBytes, err := randBytesFromStr(32, alphaNumBytes)
	if err != nil {
		return "", err
	}
	subId = string(idBytes)
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg models.Entry) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		ch <- msg
	}
}
