/*
Package simulator provides a discrete-event simulation of an M/M/c queue.

# Overview

A [Simulator] drives a fixed number of customers through a pool of c
identical servers on a single virtual clock. Events are kept in a
min-priority queue ordered by timestamp, ties broken by scheduling order,
and are consumed one at a time by a single driver loop:

  - arrival: the customer enters the FIFO queue and takes a free server if
    there is one; the next arrival is scheduled an Exp(lambda) gap later.
  - departure: the server is released and the longest-waiting customer, if
    any, starts service; its Exp(mu) service time is drawn at that moment.

Every state transition appends an [OccupancySample] to the run history.
Departing customers contribute one queue waiting time and one system
waiting time; nothing else about them is kept.

# Determinism

All random draws come from one seeded source per run, so a config, its
options and a seed reproduce the same history bit for bit.

# Thread Safety

A run never leaves the calling goroutine. A Simulator rejects a second
concurrent Run; independent Simulators share nothing.
*/
package simulator
