package publisher

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	mockLogger "github.com/muhammadchandra19/historical-data/pkg/logger/mock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_PublishBarsIngested(t *testing.T) {
	event := barv1.BarsIngested{
		RequestID: "req-1",
		Symbol:    "AAPL",
		Frequency: "1d",
		Source:    barv1.SourceUpstream,
		Count:     3,
		From:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name     string
		writer   *fakeWriter
		mockFn   func(log *mockLogger.MockInterface)
		assertFn func(t *testing.T, writer *fakeWriter, err error)
	}{
		{
			name:   "success",
			writer: &fakeWriter{},
			mockFn: func(log *mockLogger.MockInterface) {},
			assertFn: func(t *testing.T, writer *fakeWriter, err error) {
				require.NoError(t, err)
				require.Len(t, writer.messages, 1)
				assert.Equal(t, []byte("AAPL"), writer.messages[0].Key)

				var got barv1.BarsIngested
				require.NoError(t, json.Unmarshal(writer.messages[0].Value, &got))
				assert.Equal(t, event, got)
			},
		},
		{
			name:   "error: broker unavailable",
			writer: &fakeWriter{err: stderrors.New("dial tcp: connection refused")},
			mockFn: func(log *mockLogger.MockInterface) {
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, writer *fakeWriter, err error) {
				assert.True(t, errors.HasCode(err, errors.KafkaPublishError))
				assert.Empty(t, writer.messages)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			log := mockLogger.NewMockInterface(ctrl)
			tc.mockFn(log)

			p := &Publisher{writer: tc.writer, logger: log}
			err := p.PublishBarsIngested(context.Background(), event)
			tc.assertFn(t, tc.writer, err)
		})
	}
}

func TestPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}
	p := &Publisher{writer: writer}
	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestNew(t *testing.T) {
	assert.IsType(t, NoopPublisher{}, New(Config{Enabled: false}, nil))

	p := New(Config{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "bars"}, nil)
	assert.IsType(t, &Publisher{}, p)
	assert.NoError(t, NoopPublisher{}.PublishBarsIngested(context.Background(), barv1.BarsIngested{}))
}
