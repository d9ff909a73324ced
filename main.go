package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/vasigorc/items-api/internal/handlers"
)

func main() {
	log.Println("Starting Lambda...")
	lambda.Start(handlers.ItemHandler)
}
