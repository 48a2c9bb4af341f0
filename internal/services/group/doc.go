/*
Package group implements the group lifecycle engine.

A group is a cohort of buyers collectively committing to one product. Its
status moves monotonically:

	open -> waiting_votes -> {completed, failed}

with cancelled reachable from either non-terminal state. The transition from
open to waiting_votes fires when a join fills the group to its target count;
every transition is recorded in an auditable status log.

Joins are guarded twice: an application-level duplicate check backed by a
composite unique index, and a conditional member_count increment that can
never push past target_count under concurrent joiners.

Voting resolves through the unanimous fast path only: once every member's
vote is approved, the group settles. Settlement flips the status exactly
once, and for software-subscription products fans the stored access
credentials out to every member through the notification dispatcher.
Notification and settlement side effects are best-effort; the membership or
vote write is always the operation of record.
*/
package group
