package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Sales Pipeline API
// @version         0.1.0
// @description     Deal ingestion, assignment with audit trail, pipeline forecast and stalled-deal risk.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
