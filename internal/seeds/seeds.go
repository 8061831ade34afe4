package seeds

func SeedAll() error {
	if err := SeedAccounts(); err != nil {
		return err
	}
	if err := SeedJobs(); err != nil {
		return err
	}
	if err := SeedEvents(); err != nil {
		return err
	}
	if err := SeedDrives(); err != nil {
		return err
	}
	return nil
}
