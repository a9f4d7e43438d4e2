package main

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"Brave", "Clever", "Wild", "Swift", "Bold", "Mighty", "Mystic", "Noble",
	"Fierce", "Gentle", "Silent", "Rapid", "Calm", "Proud", "Wise", "Sneaky",
	"Cunning", "Golden", "Silver", "Royal", "Ancient", "Quick", "Tiny", "Giant",
}

var animals = []string{
	"Octopus", "Tiger", "Phoenix", "Dragon", "Eagle", "Wolf", "Bear", "Fox",
	"Lion", "Hawk", "Shark", "Panther", "Raven", "Falcon", "Cobra", "Viper",
	"Lynx", "Owl", "Jaguar", "Otter", "Badger", "Moose", "Bison", "Elk",
}

// poolName names the n-th extra bot of a pool, e.g. GenniaBot-SwiftOtter2.
// The slot number keeps names unique within the pool.
func poolName(base string, n int, rng *rand.Rand) string {
	adjective := adjectives[rng.Intn(len(adjectives))]
	animal := animals[rng.Intn(len(animals))]
	return fmt.Sprintf("%s-%s%s%d", base, adjective, animal, n)
}
