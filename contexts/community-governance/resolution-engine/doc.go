// Package resolutionengine implements the Resolution Engine inside the
// community-governance context.
//
// The module owns both resolution kinds the community uses to settle
// questions: subject votes (free-text options with running tallies) and
// disputes (corrector versus corrected with two side counters). It covers the
// full lifecycle - creation, one-ballot-per-principal casting and moving,
// tally-driven closure, staff overrides, metadata edits and cascading
// deletion - plus outbox-backed event production and a periodic tally audit.
// Business rules live in application/domain layers; infrastructure stays
// behind ports and adapters.
package resolutionengine
