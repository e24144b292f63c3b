package auth

// GenericMessage is shown for any code without a dedicated message.
const GenericMessage = "Error al autenticar"

const (
	CodeWrongPin      = "WRONG_PIN"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeDuplicateName = "DUPLICATE_NAME"
)

var messages = map[string]string{
	"auth/wrong-password":       "Email o contraseña incorrectos",
	"auth/user-not-found":       "Email o contraseña incorrectos",
	"auth/email-already-in-use": "Ya existe una cuenta con ese email",
	"auth/invalid-email":        "Email inválido",
	"auth/weak-password":        "La contraseña es demasiado débil",
	"auth/too-many-requests":    "Demasiados intentos. Espera un momento y vuelve a probar.",
	CodeWrongPin:                "PIN incorrecto",
	CodeUserNotFound:            "Usuario no encontrado",
	CodeDuplicateName:           "Este nombre de usuario ya está en uso",
}

func MessageFor(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return GenericMessage
}
