// Package gocollection provides a client-side view over a paginated, sortable
// and filterable remote record list.
//
// Overview
//
// A RecordSet tracks which window of a larger server-side result set is
// loaded locally, builds the fetch parameters from its state and applies the
// server responses:
//   - pagination: offset arithmetic, next/previous/first/last page and the
//     "load more" append mode;
//   - ordering: current and default sort state, direction normalization and
//     an output encoding for legacy servers (sortBy/asc);
//   - filtering: base, supplementary and dynamically computed criteria,
//     concatenated in that order;
//   - fetch coordination: page size decisions that account for local edits,
//     tracking and aborting the latest request, response parsing.
//
// Key concepts
//   - Transport: performs the network call. HTTPTransport talks to a REST
//     endpoint, GORMTransport reads straight from a database.
//   - Notifier: receives add/remove/update/reset/sync events. Bus is an
//     in-process implementation.
//   - Request: the cancelable handle of an issued fetch.
//
// Usage:
//
//	rs := gocollection.New[Account]("Account", gocollection.NewHTTPTransport[Account](apiURL)).
//		WithOrder("createdAt", gocollection.DirectionDESC).
//		WithMaxSize(20)
//
//	req, err := rs.NextPage(ctx)
//	if err != nil {
//		return err // gocollection.ErrOutOfRange
//	}
//
//	err = req.Wait(ctx)
package gocollection
