package models

import "fmt"

// Partition identifies one of the two disjoint population segments.
// Elites occupy node ids [0, E) and the mass occupies [E, N).
type Partition string

const (
	Elite Partition = "elite"
	Mass  Partition = "mass"
)

// Partitions lists both segments in node-id order.
var Partitions = []Partition{Elite, Mass}

// ParsePartition converts a string into a Partition.
func ParsePartition(s string) (Partition, error) {
	switch Partition(s) {
	case Elite, Mass:
		return Partition(s), nil
	default:
		return "", fmt.Errorf("invalid partition %q (valid: elite, mass)", s)
	}
}

// PartitionOf returns the segment of node given the number of elites.
func PartitionOf(node, numberOfElites int) Partition {
	if node < numberOfElites {
		return Elite
	}
	return Mass
}
