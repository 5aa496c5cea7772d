package main

//go:generate swag init -g cmd/dealdesk/main.go -o docs

// @title           DealDesk API
// @version         0.1.0
// @description     Deal pipeline, LP voting, survey queue, and monthly updates.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
