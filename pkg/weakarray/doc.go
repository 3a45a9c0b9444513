/*
Package weakarray provides an ordered collection of weak references.

# Overview

An [Array] holds *T values without keeping them alive. Each filled slot owns
a [lifetime.Watcher] bound to its referent; when the referent is destroyed
the watcher clears that slot. Reads never return a destroyed object:

	arr, host := weakarray.NewRefCounted[Conn]()
	host.Retain(a)
	host.Retain(b)

	arr.Add(a)
	arr.Add(b)

	host.Release(a)      // a destroyed

	first, _ := arr.At(0) // nil
	second, _ := arr.At(1) // b
	arr.Len()            // 2

Where destruction comes from is up to the [lifetime.Host]. [NewRefCounted]
uses explicit owner counts and clears slots synchronously; [NewRuntime] lets
the garbage collector decide.

# Positions

Invalidation never shifts other slots or changes Len: a dead slot stays in
place and reads as nil. Callbacks are bound to the slot itself, so Insert
and RemoveAt elsewhere never misdirect them. Call [Array.Compact] to drop
absent slots explicitly.

Replace, Remove, RemoveAt, Compact, and Clear cancel the discarded slot's
watcher before letting it go, so a later destruction of the old referent
has no effect.

# Errors

Index-based operations return an [*IndexError] wrapping
[ErrIndexOutOfRange]; [Array.Last] on an empty array returns
[ErrEmptyCollection]. Errors are detected before anything is mutated.
A miss in [Array.IndexOf] is [NotFound], and [Array.Remove] of a missing
object is a no-op.

# Thread Safety

Array assumes a single writer. Destruction notifications may arrive on
another goroutine (always, with the runtime host) and are safe: they only
touch the slot they belong to.
*/
package weakarray
