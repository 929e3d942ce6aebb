package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// mq-worker consumes reservation events and appends them to the booking
// log. It runs separately from the API server so slow log writes never
// touch request latency.
func main() {
	_ = godotenv.Load()

	log.Println("reservation consumer starting")
	if err := queue.StartReservationConsumer(); err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}
