//nolint:mnd
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"phonebook/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/segmentio/kafka-go"
)

func main() {
	kafkaBrokers := flag.String(
		"brokers",
		"localhost:9092",
		"Kafka bootstrap brokers to connect to, as a comma separated list",
	)
	kafkaTopic := flag.String("topic", "phonebook-commands", "Kafka topic to write commands to")
	numMessages := flag.Int("count", 1, "Number of commands to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between sending commands")
	opName := flag.String("op", string(entity.CommandCreate), "Command to send: create, update or delete")

	flag.Parse()

	op := entity.CommandOp(*opName)
	switch op {
	case entity.CommandCreate, entity.CommandUpdate, entity.CommandDelete:
	default:
		log.Fatalf("unknown op %q", *opName)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(*kafkaBrokers, ",")...),
		Topic:                  *kafkaTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf(
		"Starting Kafka producer. Will send %d %s commands to topic '%s' at broker(s) '%s' every %v\n",
		*numMessages,
		op,
		*kafkaTopic,
		*kafkaBrokers,
		*interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; sent < *numMessages; sent++ {
		if sent > 0 {
			select {
			case <-ctx.Done():
				log.Println("Shutting down producer...")
				return
			case <-ticker.C:
			}
		}
		sendCommand(ctx, writer, generateFakeCommand(op))
	}

	log.Printf("Sent all %d commands. Exiting.\n", *numMessages)
}

func sendCommand(ctx context.Context, writer *kafka.Writer, cmd *entity.AddressCommand) {
	value, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("Failed to marshal command: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(cmd.Phone),
		Value: value,
	})
	if err != nil {
		log.Printf("Failed to write command to Kafka: %v", err)
		return
	}

	log.Printf("Successfully sent %s for phone: %s", cmd.Op, cmd.Phone)
}

// generateFakePhone alternates between the E.164 and the Russian 8XXXXXXXXXX
// shapes so both normalization paths get traffic.
func generateFakePhone() string {
	if gofakeit.Bool() {
		return "8" + gofakeit.Numerify("9#########")
	}
	return fmt.Sprintf("+%d%s", gofakeit.Number(1, 9), gofakeit.Numerify("#########"))
}

func generateFakeAddress() *entity.AddressFields {
	addr := gofakeit.Address()
	return &entity.AddressFields{
		Street:        addr.Street,
		City:          addr.City,
		StateProvince: addr.State,
		PostalCode:    addr.Zip,
		Country:       gofakeit.CountryAbr(),
	}
}

func generateFakeCommand(op entity.CommandOp) *entity.AddressCommand {
	cmd := &entity.AddressCommand{
		Op:    op,
		Phone: generateFakePhone(),
	}
	if op != entity.CommandDelete {
		cmd.Address = generateFakeAddress()
	}
	return cmd
}
