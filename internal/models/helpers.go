package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateDrawID() string {
	return fmt.Sprintf("draw_%s_%s",
		time.Now().UTC().Format("20060102"),
		uuid.New().String())
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s_%s",
		time.Now().UTC().Format("20060102"),
		uuid.New().String())
}

// Outcome names a draw verdict for API and metric labels.
func Outcome(prime bool) string {
	if prime {
		return "win"
	}
	return "loss"
}
