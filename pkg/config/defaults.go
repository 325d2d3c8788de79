package config

/**
 * Parameters
 */

// default seed of the simulation random source
const DefaultSeed uint64 = 1

// default number of customers in a simulation run
const DefaultNumCustomers int = 10000

// relative tolerance when comparing simulated against analytic metrics
var ConvergenceTolerance = 0.10

// tolerance on the truncated sum of state probabilities
var StateSumTolerance = 1e-6

// number of states summed when checking the state distribution, as 100 + this multiple of servers
var StateSumServerMultiple = 10
