// Package sim provides the core discrete-event simulation engine for
// operational business processes: cases flowing through typed tasks that are
// matched to resources over simulated time.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - entities.go: Case, Task and Resource lifecycle (unassigned → assigned → started → completed)
//   - event_queue.go: The clock and the deterministically-ordered event heap
//   - simulator.go: The event loop and the construction-time validation
//
// Then the decision surface:
//   - lifecycle.go: State transitions applied by each event handler
//   - protocol.go: How planners are consulted and their assignments validated
//   - replicate.go: Fan-out of independent replications and result aggregation
//
// # Architecture
//
// The sim package defines the engine and its collaborator interfaces;
// concrete collaborators live in sub-packages:
//   - sim/process/: Process adapters (M/M/c, imbalanced, sequential, scheduling, YAML-defined)
//   - sim/plan/: Planners (greedy, heuristic, predictive, shortest-processing-time)
//   - sim/predict/: Predicters consulted by planners
//
// # Key Interfaces
//
// The extension points are small interfaces supplied at construction time:
//   - Process: stochastic process facts (arrivals, processing times, task routing, payloads)
//   - Planner: task → resource → moment assignment decisions over a read-only Snapshot
//   - Predicter: processing-time estimates planners may consult
//   - Reporter: lifecycle notifications and per-replication summaries
//
// Determinism is a hard guarantee: one replication is single-threaded, all
// randomness flows through a PartitionedRNG seeded per replication, and
// simultaneous events are ordered by (moment, event-type priority, sequence
// number), so runs with the same seed and configuration replay bit-identically.
package sim
