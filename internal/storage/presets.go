package storage

// Presets are written to an empty store the first time templates are read.
func Presets() []ChecklistTemplate {
	return []ChecklistTemplate{
		{
			ID:          "preset_inst_rastreador_completo_pro",
			Name:        "Instalação Rastreador Pro",
			Description: "Checklist profissional com testes de bloqueio, pós-chave e sinal.",
			IsFavorite:  true,
			Fields: []ChecklistField{
				{ID: "ir1", Label: "Scanner de Placa", Type: FieldAIPlaca, Required: true},
				{ID: "ir2", Label: "Identificação do Veículo", Type: FieldAIBrandModel, Required: true},
				{ID: "ir3", Label: "IMEI do Equipamento", Type: FieldAIIMEI, Required: true},
				{ID: "ir4", Label: "Foto da Fixação do Módulo", Type: FieldPhoto, Required: true},
				{ID: "ir5", Label: "Teste de Bloqueio (Corte)", Type: FieldBoolean, Required: true},
				{ID: "ir6", Label: "Teste de Ignição (Pós-Chave)", Type: FieldBoolean, Required: true},
				{ID: "ir7", Label: "Sinal GPS/GPRS Verificado", Type: FieldBoolean, Required: true},
				{ID: "ir8", Label: "Chicote Escondido e Organizado", Type: FieldBoolean, Required: true},
				{ID: "ir9", Label: "Valor da Instalação", Type: FieldPrice, Required: true},
			},
		},
		{
			ID:          "preset_manutencao_pro",
			Name:        "Manutenção Corretiva",
			Description: "Troca de chip, bateria ou reposicionamento de hardware.",
			IsFavorite:  true,
			Fields: []ChecklistField{
				{ID: "mc1", Label: "Placa", Type: FieldAIPlaca, Required: true},
				{ID: "mc2", Label: "Motivo da Manutenção", Type: FieldText, Required: true},
				{ID: "mc3", Label: "Equipamento Substituído?", Type: FieldBoolean, Required: true},
				{ID: "mc4", Label: "Novo IMEI (se houver)", Type: FieldAIIMEI, Required: false},
				{ID: "mc5", Label: "Foto do Serviço", Type: FieldPhoto, Required: true},
				{ID: "mc6", Label: "Valor Manutenção", Type: FieldPrice, Required: true},
			},
		},
		{
			ID:          "preset_vistoria_frota",
			Name:        "Vistoria de Frota (Check-in)",
			Description: "Ideal para locadoras e transportadoras.",
			IsFavorite:  true,
			Fields: []ChecklistField{
				{ID: "vf1", Label: "Placa do Veículo", Type: FieldAIPlaca, Required: true},
				{ID: "vf2", Label: "Quilometragem (KM)", Type: FieldNumber, Required: true},
				{ID: "vf3", Label: "Nível de Combustível", Type: FieldSelectSimple, Required: true, Options: []FieldOption{
					{ID: "c1", Label: "Reserva"},
					{ID: "c2", Label: "1/4"},
					{ID: "c3", Label: "Meio Tanque"},
					{ID: "c4", Label: "Cheio"},
				}},
				{ID: "vf4", Label: "Avarias Externas?", Type: FieldBoolean, Required: true},
				{ID: "vf5", Label: "Foto Lateral Direita", Type: FieldPhoto, Required: true},
				{ID: "vf6", Label: "Foto Lateral Esquerda", Type: FieldPhoto, Required: true},
				{ID: "vf7", Label: "Limpeza Interna OK?", Type: FieldBoolean, Required: true},
			},
		},
	}
}
