package main

import (
	"taskboard/fixtures"
	"taskboard/migrations"
)

func loadFixture(args []string) (*migrations.Fixture, error) {
	if len(args) == 1 {
		return migrations.LoadFixture(args[0])
	}
	return migrations.ParseFixture(fixtures.Seed)
}
