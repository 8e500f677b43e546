//go:build !linux && !darwin

package notify

func platformSender() Sender {
	return nil
}
