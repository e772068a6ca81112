package kafka_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/newsvec/pkg/eventstream"
	"github.com/papercomputeco/newsvec/pkg/eventstream/kafka"
)

var _ = Describe("Publisher against a broker", func() {
	var brokers []string

	BeforeEach(func() {
		env := os.Getenv("NEWSVEC_TEST_KAFKA_BROKERS")
		if env == "" {
			Skip("NEWSVEC_TEST_KAFKA_BROKERS not set, skipping Kafka tests")
		}
		brokers = strings.Split(env, ",")
	})

	It("delivers events that a reader can decode", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		topic := fmt.Sprintf("newsvec-test-%d", time.Now().UnixNano())
		conn, err := kafkago.DialContext(ctx, "tcp", brokers[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(conn.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})).To(Succeed())
		Expect(conn.Close()).To(Succeed())

		pub, err := kafka.NewPublisher(kafka.Config{Brokers: brokers, Topic: topic})
		Expect(err).NotTo(HaveOccurred())
		defer pub.Close()

		Expect(pub.Publish(ctx, eventstream.NewCollectionResetEvent("news_articles"))).To(Succeed())

		reader := kafkago.NewReader(kafkago.ReaderConfig{Brokers: brokers, Topic: topic})
		defer reader.Close()

		msg, err := reader.ReadMessage(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(msg.Key)).To(Equal("news_articles"))

		var got eventstream.Event
		Expect(json.Unmarshal(msg.Value, &got)).To(Succeed())
		Expect(got.EventType).To(Equal(eventstream.EventTypeCollectionReset))
	})
})
