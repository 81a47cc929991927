package k8s

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

// ListEvents returns the events of a rollout and of the replica sets and
// pods it spawned, most recent first. Children are matched by name prefix.
func (c *Client) ListEvents(ctx context.Context, rolloutName string) ([]domain.EventInfo, error) {
	eventList, err := c.clientset.CoreV1().Events(c.namespace).List(ctx, metav1.ListOptions{
		Limit: 500,
	})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}

	now := c.now()
	events := make([]domain.EventInfo, 0, len(eventList.Items))
	for _, evt := range eventList.Items {
		obj := evt.InvolvedObject.Name
		if obj != rolloutName && !strings.HasPrefix(obj, rolloutName+"-") {
			continue
		}
		events = append(events, eventToEventInfo(evt, now))
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func eventToEventInfo(evt corev1.Event, now time.Time) domain.EventInfo {
	createdAt := evt.LastTimestamp.Time
	if createdAt.IsZero() {
		createdAt = evt.EventTime.Time
	}

	return domain.EventInfo{
		Type:      evt.Type,
		Reason:    evt.Reason,
		Message:   evt.Message,
		Object:    fmt.Sprintf("%s/%s", evt.InvolvedObject.Kind, evt.InvolvedObject.Name),
		Namespace: evt.Namespace,
		Age:       formatAge(now, createdAt),
		Count:     evt.Count,
		CreatedAt: createdAt,
	}
}
