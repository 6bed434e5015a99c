/*
Package gelf provides a full GELF (Graylog Extended Log Format) shipping
stack in Go, including:

  - `gelf.Message` - a validated GELF log event
  - `gelf.Dispatcher` - the async boundary between logging call sites and
    network I/O, with a bounded FIFO queue and a single delivery worker
  - `gelf.UDPBackend` / `gelf.TCPBackend` - transports implementing the GELF
    UDP chunking protocol and the null-terminated GELF TCP/TLS framing
  - `gelf.Handler` - serializes Go structured logs into GELF messages
    (implements `slog.Handler`)

The stack is optimized for not getting in the application's way:

  - enqueueing a message never waits on network I/O; the worker owns the
    connection exclusively
  - transport and pipeline failures are contained in the worker, counted,
    and reported through the internal logger, never returned to call sites
  - queue overflow behavior is an explicit, documented policy (block,
    drop-newest, or drop-oldest), not ambient nondeterminism
  - oversized UDP payloads are split per the GELF chunking protocol, up to
    the protocol ceiling of 128 chunks per message
*/
package gelf
