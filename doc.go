/*
Package rtlsim is a discrete-event simulation kernel for synchronous
register-transfer-level designs.

Designs are described as a tree of module specifications. A ModuleSpec
declares ports, parameters and a build function; the build function declares
internal signals, continuous assignments, clocked processes and child
instances, much like a hardware description language would, but using Go as
the description language.

Elaborate resolves the module tree into an immutable Design: parameters are
bound, child ports are connected to parent signals, the combinational
dependency graph is checked for cycles and a topological evaluation order is
derived once. A Sim then drives the Design: external stimulus is scheduled at
future simulated times, clocks are periodic self-rescheduling toggle events,
and every time step settles through delta-cycles until no combinational
update remains pending.

Clocked processes follow non-blocking assignment semantics: all processes
triggered by the same edge read pre-edge signal values and their writes are
committed only after every such process has run. Given identical stimulus,
two runs of the same design produce bit-identical signal traces.
*/
package rtlsim
