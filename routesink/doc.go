// Package routesink mirrors an announced plan to Redis.
//
// Every step the route notifier announces is published as JSON on the
// channel "<prefix>:<session>" and appended to the list with the same key,
// so late observers can read the whole route after the fact. The list
// expires after the configured TTL.
//
// Publishing is best effort from the planner's point of view: the notifier
// logs sink failures and keeps announcing.
package routesink
