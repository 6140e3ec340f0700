package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"cvbuilder-backend/internal/bootstrap"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, app, record.Body)
		if err == nil {
			continue
		}
		if !retryable(err) {
			// A body that cannot be parsed will never succeed; letting it
			// retry only delays its trip to the DLQ.
			log.Printf("dropping unrecoverable message %s: %v", record.MessageId, err)
			continue
		}
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func retryable(err error) bool {
	var emptyErr workerproc.ErrEmptyBody
	var decodeErr workerproc.ErrDecode
	var missingErr workerproc.ErrMissingExportID
	switch {
	case errors.As(err, &emptyErr), errors.As(err, &decodeErr), errors.As(err, &missingErr):
		return false
	default:
		return true
	}
}

func main() {
	lambda.Start(handler)
}
