// Package services implements the driving port interfaces.
// Services contain the core business logic: boundary detection, chapter
// segmentation, utterance extraction, and two-tier speaker resolution.
// They orchestrate calls to driven ports (adapters) and never write to
// storage themselves; resolution is pure decision-making and persistence
// happens in the calling orchestration.
package services
