package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyTaskID      = "task_id"
	KeyPlantID     = "plant_id"
	KeyCategory    = "category"
	KeyPriority    = "priority"
	KeyAchievement = "achievement"
	KeyEvent       = "event"
	KeyStore       = "store"
	KeyKey         = "key"
	KeyPath        = "path"
	KeyOp          = "op"
	KeyError       = "error"
)

func TaskID(id int64) slog.Attr       { return slog.Int64(KeyTaskID, id) }
func PlantID(id string) slog.Attr     { return slog.String(KeyPlantID, id) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Priority(p string) slog.Attr     { return slog.String(KeyPriority, p) }
func Achievement(id string) slog.Attr { return slog.String(KeyAchievement, id) }
func Event(kind string) slog.Attr     { return slog.String(KeyEvent, kind) }
func Store(kind string) slog.Attr     { return slog.String(KeyStore, kind) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Op(name string) slog.Attr        { return slog.String(KeyOp, name) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
