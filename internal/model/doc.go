// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for studies and participants.
//
// These types mirror the wire format of the cohort platform API. The
// client treats chart images, CSV exports, and consent documents as
// opaque blobs; everything with structure lives here.
//
// # Key Types
//
//   - Role: Closed actor set - participant ("user") or organizer
//     ("principal_investigator")
//   - Study, StudyOverview: Organizer-facing study records
//   - Participant, UserStudyData: Enrollment records
//   - Metric: A recorded data stream (heart rate, acceleration, ...)
//
// # Durations
//
// Study durations travel as ISO-8601 duration strings restricted to
// days and hours (for example "P7DT12H"). FormatISODuration and
// ParseISODuration convert between that form and (days, hours).
package model
