package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/kafka"
	"Pulseboard/internal/service"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportRequest(t *testing.T) {
	req, err := kafka.ParseImportRequest([]byte(`{"workspace":"acme","followers_object":"acme/a.xlsx","persist":false}`))
	require.NoError(t, err)
	assert.Equal(t, "acme", req.Workspace)
	assert.Equal(t, "acme/a.xlsx", req.FollowersObject)
	require.NotNil(t, req.Persist)
	assert.False(t, *req.Persist)

	_, err = kafka.ParseImportRequest([]byte(`{"followers_object":"x"}`))
	assert.Error(t, err)

	_, err = kafka.ParseImportRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestPermanent(t *testing.T) {
	assert.True(t, kafka.Permanent(service.ErrIncompleteUpload))
	assert.True(t, kafka.Permanent(fmt.Errorf("%w: bad", service.ErrMalformedDate)))
	assert.False(t, kafka.Permanent(service.ErrPersistenceWrite))
	assert.False(t, kafka.Permanent(errors.New("connection reset")))
}

func TestIngestProducerPublishes(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)

	var sent []byte
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		sent = val
		return nil
	})

	p := kafka.NewIngestProducerWith(mock, "pulseboard.ingested")
	err := p.PublishIngest(context.Background(), &dto.IngestEventDTO{
		Workspace: "acme",
		Persisted: true,
		Rows:      map[string]int{"new_followers": 3},
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	var event dto.IngestEventDTO
	require.NoError(t, json.Unmarshal(sent, &event))
	assert.Equal(t, "acme", event.Workspace)
	assert.Equal(t, 3, event.Rows["new_followers"])
}

func TestIngestProducerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewIngestProducerWith(mock, "pulseboard.ingested")
	err := p.PublishIngest(context.Background(), &dto.IngestEventDTO{Workspace: "acme"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
