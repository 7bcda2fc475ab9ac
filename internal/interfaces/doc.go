// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book content and in-book search (internal/http/stores.go)
//   - ReadingStore: Progress, highlights, notes, bookmarks and sessions (internal/http/stores.go)
//   - SessionFolder, SessionPurger: Session maintenance used by tasks (internal/tasks/sessions.go)
//
// ## Caching and Background Work
//
//   - ContentCache: Book content cache, Redis or no-op (internal/cache/content.go)
//   - TaskQueue: backlite task submission (internal/http/stores.go, internal/scheduler)
//
// ## Reader Client Interfaces
//
//   - API: Everything the reader store calls on the reading API (internal/reader/store.go)
//   - SettingsPersister: Local storage of display settings (internal/reader/store.go)
//   - AnnotationExporter: Writes a book's annotations to files (internal/exporters/generic.go)
//
// # Adding a New Annotation Kind
//
//  1. Add the entity and its partial update type to internal/entities/reading.go
//     and register it in database.NewDatabase for migration.
//
//  2. Add repository methods in internal/database/reading/ and extend
//     ReadingStore with them.
//
//  3. Add a controller in internal/http/ and register its routes in router.go.
//
//  4. Add the endpoints to internal/readerapi/endpoints.go, extend reader.API
//     and keep the new slice in reader.State.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the checks of this module.
package interfaces
