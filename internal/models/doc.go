// Package models defines the core domain models for the study-abroad platform.
//
// # Progress tracking
//
// Each user owns exactly one ProgressTracking record. The record holds four
// fixed stages (offer, gs, coe, visa), each an ordered tree of ChecklistItem
// values plus the counts derived from that tree:
//   - ProgressTracking: the per-user document, stored whole by the storage layer
//   - Stage: one stage's checklist and its completed/total/percentage tallies
//   - ChecklistItem: a requirement, optionally conditional, with sub-requirements
//
// The models carry no behaviour beyond JSON decoding defaults. Counting and
// mutation live in package checklist; persistence lives in package storage.
//
// # Design Principles
//
//  1. The record is a document: stages and items are always read and written whole.
//  2. Children are a concrete recursive type, never an untyped bag.
//  3. Derived fields (counts, percentages, lastUpdated) are only written by the checklist engine.
package models
