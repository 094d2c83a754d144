// Package domain contains the core value types shared by the readout data path.
//
// It has no dependencies on infrastructure concerns (file system, logging)
// and holds only the vocabulary the other layers exchange.
//
// # Types
//
//   - [Word]: a fixed-width output word produced by a channel encoder
//   - [Entry]: one successful arbiter dequeue (read index, channel, word)
//   - [Trace]: the ordered drain trace handed from the scheduler to the packetiser
//   - [Report]: the persisted summary of one run, with its [Counters] and [FrameStats]
package domain
