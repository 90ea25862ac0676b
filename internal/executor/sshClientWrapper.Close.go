package executor

func (w sshClientWrapper) Close() error {
	if w.c == nil {
		return nil
	}
	return w.c.Close()
}
