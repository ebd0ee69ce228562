// Package targets maps target names to the documents they produce. Targets
// are registered explicitly during startup and looked up by the names given
// on the command line. Each target inspects the event graph and its free-form
// configuration block and assembles render tasks; layout lives in the
// templates, not here.
package targets
