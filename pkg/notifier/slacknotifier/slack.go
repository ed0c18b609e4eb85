package slacknotifier

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(1*time.Second), 3)

type notifyTask struct {
	Channel string
	Opts    []slack.MsgOption
}

// Notifier posts engine notifications to a slack channel through a
// buffered background worker so a slow API call never blocks the bar
// pipeline.
type Notifier struct {
	client  *slack.Client
	channel string

	taskC chan notifyTask
}

func New(client *slack.Client, channel string) *Notifier {
	notifier := &Notifier{
		client:  client,
		channel: channel,
		taskC:   make(chan notifyTask, 100),
	}

	go notifier.worker()

	return notifier
}

func (n *Notifier) worker() {
	ctx := context.Background()
	for task := range n.taskC {
		// ignore the wait error
		_ = limiter.Wait(ctx)

		_, _, err := n.client.PostMessageContext(ctx, task.Channel, task.Opts...)
		if err != nil {
			log.WithError(err).
				WithField("channel", task.Channel).
				Errorf("slack api error: %s", err.Error())
		}
	}
}

func (n *Notifier) Notify(format string, args ...interface{}) {
	task := notifyTask{
		Channel: n.channel,
		Opts: []slack.MsgOption{
			slack.MsgOptionText(fmt.Sprintf(format, args...), false),
		},
	}

	select {
	case n.taskC <- task:
	default:
		log.Warnf("slack notify queue is full, dropping message")
	}
}
