/*
Package counting implements the counting contract.

The contract counts donations that meet a configured minimal threshold and
holds the donated funds. Only the owner fixed at instantiation can reset the
counter or move funds out. A contract instance can optionally be configured
with a parent: another instance of this contract that periodically receives a
configured fraction of the balance, forwarded as a nested donate call every
time the donation countdown runs out.

Three schema generations exist in the contract's history. 0.1.0 stored one
record per field ("counter", "minimal_donation", "owner"), 0.2.0 a composite
"state" record without the parent countdown, 0.3.0 the current composite
record. Migrate upgrades any of them to the current layout in a single step
and is idempotent at the current version.

# Call attributes

Every execute call emits observability attributes:

	donate:
	  - action: "donate"
	  - sender: caller address
	  - counter: counter value after the call
	  - donated_to_parent: parent address (forwarding cycles only)

	reset:
	  - action: "reset"
	  - sender: caller address
	  - counter: new counter value

	withdraw, withdraw_to:
	  - action: "withdraw"
	  - sender: caller address
*/
package counting
