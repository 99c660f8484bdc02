/*
Package host defines the surface the counting contract expects from the chain
runtime it is deployed to: persistent key-value storage, account identities,
coin values, bank balance queries and the response/effect types a contract
call produces.

The runtime serializes calls against a contract instance, so none of the
types here carry locking. Outbound messages attached to a Response are
buffered intent: the runtime applies them, together with all storage writes
of the call, only if the whole call returns without an error.
*/
package host
