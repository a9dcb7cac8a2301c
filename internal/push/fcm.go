package push

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewDispatcher builds an FCM dispatcher, or a noop dispatcher when no
// credentials file is configured or Firebase initialization fails.
func NewDispatcher(ctx context.Context, credentialsFile string, logger *zap.SugaredLogger) Dispatcher {
	if credentialsFile == "" {
		logger.Infow("push disabled, using noop dispatcher", "reason", "no credentials file")
		return noopDispatcher{logger: logger}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		logger.Warnw("push disabled, using noop dispatcher", "error", err)
		return noopDispatcher{logger: logger}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Warnw("push disabled, using noop dispatcher", "error", err)
		return noopDispatcher{logger: logger}
	}

	return &fcmDispatcher{client: client}
}

type fcmDispatcher struct {
	client *messaging.Client
}

func (d *fcmDispatcher) Send(ctx context.Context, intent Intent) error {
	if intent.Token == "" {
		return errors.New("empty device token")
	}

	_, err := d.client.Send(ctx, &messaging.Message{
		Token: intent.Token,
		Notification: &messaging.Notification{
			Title: intent.Title,
			Body:  intent.Body,
		},
		Data: intent.Data,
	})
	return err
}

type noopDispatcher struct {
	logger *zap.SugaredLogger
}

func (d noopDispatcher) Send(_ context.Context, intent Intent) error {
	d.logger.Debugw("noop push", "title", intent.Title, "body", intent.Body)
	return nil
}
