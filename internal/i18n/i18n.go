// Package i18n provides the UI string tables keyed by locale and message id.
// It is presentation-only; the engine treats the language code as opaque.
package i18n

// Message ids.
const (
	MsgTitle                 = "title"
	MsgNewProjectPlaceholder = "newProjectPlaceholder"
	MsgAddProject            = "addProject"
	MsgDeleteProject         = "deleteProject"
	MsgSelectProject         = "selectProject"
	MsgTaskTitlePlaceholder  = "taskTitlePlaceholder"
	MsgAddTask               = "addTask"
	MsgAll                   = "all"
	MsgActive                = "active"
	MsgCompleted             = "completed"
	MsgCreatedAt             = "createdAt"
	MsgMarkAsDone            = "markAsDone"
	MsgTasksLeft             = "tasksLeft"
	MsgDeleteCompleted       = "deleteCompleted"
	MsgConfirmDeleteTitle    = "confirmDeleteTitle"
	MsgConfirmDeleteDesc     = "confirmDeleteDescription"
	MsgConfirmDelete         = "confirmDelete"
	MsgCancelDelete          = "cancelDelete"
	MsgSortBy                = "sortBy"
	MsgAlphabetical          = "alphabetical"
	MsgReverseAlphabetical   = "reverseAlphabetical"
	MsgCreationDate          = "creationDate"
	MsgDuplicateProjectError = "duplicateProjectError"
)

var translations = map[string]map[string]string{
	"en": {
		MsgTitle:                 "To-Do List",
		MsgNewProjectPlaceholder: "New project name",
		MsgAddProject:            "Add Project",
		MsgDeleteProject:         "Delete Project",
		MsgSelectProject:         "Select a project",
		MsgTaskTitlePlaceholder:  "Task title",
		MsgAddTask:               "Add Task",
		MsgAll:                   "All",
		MsgActive:                "Active",
		MsgCompleted:             "Completed",
		MsgCreatedAt:             "Created at:",
		MsgMarkAsDone:            "Mark as Done",
		MsgTasksLeft:             "tasks left in this project",
		MsgDeleteCompleted:       "Delete Completed",
		MsgConfirmDeleteTitle:    "Are you sure?",
		MsgConfirmDeleteDesc:     "This action cannot be undone. This will permanently delete the project and all its tasks.",
		MsgConfirmDelete:         "Yes, delete project",
		MsgCancelDelete:          "Cancel",
		MsgSortBy:                "Sort by:",
		MsgAlphabetical:          "A-Z",
		MsgReverseAlphabetical:   "Z-A",
		MsgCreationDate:          "Creation Date",
		MsgDuplicateProjectError: "A project with this name already exists.",
	},
	"es": {
		MsgTitle:                 "Lista de Tareas",
		MsgNewProjectPlaceholder: "Nombre del nuevo proyecto",
		MsgAddProject:            "Agregar Proyecto",
		MsgDeleteProject:         "Eliminar Proyecto",
		MsgSelectProject:         "Seleccionar un proyecto",
		MsgTaskTitlePlaceholder:  "Título de la tarea",
		MsgAddTask:               "Agregar Tarea",
		MsgAll:                   "Todas",
		MsgActive:                "Activas",
		MsgCompleted:             "Completadas",
		MsgCreatedAt:             "Creada el:",
		MsgMarkAsDone:            "Marcar como Hecha",
		MsgTasksLeft:             "tareas pendientes en este proyecto",
		MsgDeleteCompleted:       "Eliminar Completadas",
		MsgConfirmDeleteTitle:    "¿Estás seguro?",
		MsgConfirmDeleteDesc:     "Esta acción no se puede deshacer. Eliminará permanentemente el proyecto y todas sus tareas.",
		MsgConfirmDelete:         "Sí, eliminar proyecto",
		MsgCancelDelete:          "Cancelar",
		MsgSortBy:                "Ordenar por:",
		MsgAlphabetical:          "A-Z",
		MsgReverseAlphabetical:   "Z-A",
		MsgCreationDate:          "Fecha de Creación",
		MsgDuplicateProjectError: "Ya existe un proyecto con este nombre.",
	},
}

// T looks up a message for a locale, falling back to English, then to the
// message id itself so a typo is visible rather than blank.
func T(lang, id string) string {
	if table, ok := translations[lang]; ok {
		if msg, ok := table[id]; ok {
			return msg
		}
	}
	if msg, ok := translations["en"][id]; ok {
		return msg
	}
	return id
}

// Languages returns the locales with a translation table, English first.
func Languages() []string {
	out := []string{"en"}
	for lang := range translations {
		if lang != "en" {
			out = append(out, lang)
		}
	}
	return out
}

// Supported reports whether a locale has its own table.
func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}
