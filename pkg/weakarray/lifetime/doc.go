/*
Package lifetime watches objects for destruction.

# Overview

Go has no destructor hook, so "this object is about to be destroyed" has to
come from somewhere. A [Host] is that somewhere: it accepts a registration
for a target and calls back exactly once when the target dies. Two hosts are
provided:

  - [RefCount] tracks explicit owning references. The callback runs
    synchronously inside the [RefCount.Release] that drops the last one.
  - [Runtime] uses runtime.AddCleanup. The callback runs on the runtime's
    cleanup goroutine some time after the target becomes unreachable.

# Watchers

A [Watcher] binds one target to a one-shot callback:

	host := lifetime.NewRefCount[Session]()
	host.Retain(s)

	w, err := lifetime.Watch(host, s, func() {
	    fmt.Println("session gone")
	})
	if err != nil {
	    return err
	}

	host.Release(s) // prints "session gone"

A watcher never holds a strong pointer to its target. It moves from
[Armed] to either [Fired] (target destroyed) or [Cancelled] (explicit
[Watcher.Cancel]); both are terminal. The callback runs at most once no
matter how often the host delivers the notification, and a panic inside
it is recovered and logged rather than propagated into the host.

# Thread Safety

Watchers and hosts are safe for concurrent use. Callbacks run on whichever
goroutine triggered destruction and are never called with a host lock held,
so a callback may retain, release, or observe other objects.
*/
package lifetime
