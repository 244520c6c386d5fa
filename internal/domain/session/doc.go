// Package session keeps the signed-in user, their workspaces, and the
// active workspace consistent across memory, the local store, and the
// remote service.
//
// Components:
//   - Store: in-memory state with atomic setters and versioned snapshots
//   - ResolveNeedsWorkspace, ChooseActiveWorkspace: pure decision rules
//   - Lifecycle: login, register, logout, restore, reconcile, switch, and
//     the workspace and account mutations
//
// State machine:
//
//	Restoring --restore--> Authenticated | Unauthenticated
//	Unauthenticated --login/register--> Authenticated
//	Authenticated --logout--> Unauthenticated
//
// Ordering:
//   - Every login, register, logout, and restore bumps an epoch. Results
//     of network calls started under an older epoch are discarded.
//   - Memory is updated before the local store, under one commit lock.
//   - Network calls never hold the commit lock.
//   - Restore is optimistic: persisted credentials are trusted at once and
//     confirmed by a background reconcile.
//
// Example Usage:
//
//	lc, err := session.New(session.Options{Gateway: client, Persistence: store})
//	lc.Restore(ctx)
//	lc.Wait()
//	if err := lc.Login(ctx, email, password); err != nil { ... }
//	lc.Subscribe(func(s session.State) { render(s) })
package session
